/*
Package cash keeps the token balances of all accounts.

There is no logic in the coins (tokens), except that the balance
of any coin may not go below zero. Wallets are stored per address
and may hold multiple currencies.

The only transaction exposed here is a deposit, which moves funds
from the sender into the shared pool account. All other transfers
happen through the Controller, driven by other extensions.
*/
package cash
