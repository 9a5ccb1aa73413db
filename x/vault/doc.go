/*
Package vault implements unanimous-consent fund release.

A fixed set of three owner accounts jointly controls a pool of value.
Any owner may propose an outgoing transfer, which creates a pending
request supported only by its submitter. The other owners add or
retract their support independently. Once every owner supports a
request, any owner may execute it, which removes the request and moves
the funds from the pool to the target account.

Request ids are strictly increasing 128-bit integers and are never
reused, executed requests stay gone forever. The owner registry is
written once at genesis and is immutable afterwards.

All operations require the sender to be a registered owner acting
through a signature condition. Value enters the pool through the cash
extension's deposit operation and leaves it only through an executed
request.
*/
package vault
