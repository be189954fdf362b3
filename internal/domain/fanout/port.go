package fanout

import "context"

// WorkerClient posts one JSON body to one worker. It never fails: transport
// and decoding problems are folded into the returned Reply.
type WorkerClient interface {
	Post(ctx context.Context, workerURL string, body []byte) Reply
}

// Publisher stores a Markdown review summary somewhere humans will read it.
// It returns the HTTP status of the final write.
type Publisher interface {
	Publish(ctx context.Context, content string) (int, error)
}
