package pagination

// Stream is one side of a bidirectional call as the server sees it.
// Recv returns io.EOF once the client has finished sending; that ends the
// call cooperatively and is not an error.
type Stream[Req, Resp any] interface {
	Recv() (Req, error)
	Send(resp Resp) error
}

type replayStream[Req, Resp any] struct {
	Stream[Req, Resp]
	first   Req
	pending bool
}

// Replay returns a stream whose first Recv yields first and then defers to s.
// Handlers that must inspect the opening message before choosing a paginator
// use it to hand that message back.
func Replay[Req, Resp any](first Req, s Stream[Req, Resp]) Stream[Req, Resp] {
	return &replayStream[Req, Resp]{Stream: s, first: first, pending: true}
}

func (r *replayStream[Req, Resp]) Recv() (Req, error) {
	if r.pending {
		r.pending = false
		return r.first, nil
	}
	return r.Stream.Recv()
}

type mappedStream[Req, From, To any] struct {
	inner Stream[Req, To]
	fn    func(From) To
}

// Map returns a stream that converts every response with fn before sending it on s
func Map[Req, From, To any](s Stream[Req, To], fn func(From) To) Stream[Req, From] {
	return &mappedStream[Req, From, To]{inner: s, fn: fn}
}

func (m *mappedStream[Req, From, To]) Recv() (Req, error) {
	return m.inner.Recv()
}

func (m *mappedStream[Req, From, To]) Send(resp From) error {
	return m.inner.Send(m.fn(resp))
}

// MapPage converts the items of a page while keeping its cursors
func MapPage[From, To any](page *Page[From], fn func(From) To) *Page[To] {
	items := make([]To, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, fn(item))
	}
	return &Page[To]{Items: items, Previous: page.Previous, Next: page.Next}
}
