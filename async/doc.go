// Package async turns WinRT async operations into pollable futures.
//
// A Future checks the operation status on its first poll. An operation that
// already finished is resolved immediately without registering anything.
// Otherwise a completion handler is registered through the operation's
// put_Completed slot and the poll reports pending. The handler runs on a
// platform thread and only wakes the recorded Waker; results are fetched by
// the next poll through GetResults.
//
// Await drives Poll from the calling goroutine until the operation finishes
// or the context ends. Abandoning a wait does not cancel the operation.
package async
