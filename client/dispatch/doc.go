// Package dispatch runs asynchronous client calls, one goroutine per
// call, with an optional cap on how many run at once.
//
//	q := dispatch.New(4)
//	t := q.Go(ctx, func(ctx context.Context) error {
//		return doWork(ctx)
//	})
//	<-t.Done()
//	err := q.Wait() // every error recorded by the queue, joined
//
// Tasks carry no ordering guarantee: they finish in completion order,
// not submission order.
package dispatch
