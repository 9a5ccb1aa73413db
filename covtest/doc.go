/*
Package covtest provides mocks and helpers for testing covault
handlers and extensions.

Structures provided by this package implement the most commonly
needed interfaces: authenticators, transactions, messages, handlers
and stores. Zero values are usable, attributes can be set to control
returned results.
*/
package covtest
