/*
Package covault defines all common interfaces that tie the subpackages of a
covault application together, as well as implementations of some of the
simpler components (when interfaces would be too much overhead).

We pass context through context.Context between app, middleware, and
handlers. To do so, covault defines some common keys to store info, such as
block height and chain id. Each extension, such as x/vault, may add its own
keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package covault
