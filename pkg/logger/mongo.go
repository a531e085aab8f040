package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoQueueSize = 4096
	mongoBatchSize = 50
	mongoFlushTick = 2 * time.Second
)

// LogDocument is one log line as stored in MongoDB.
type LogDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// batchWriter persists one batch of documents.
type batchWriter interface {
	WriteBatch(ctx context.Context, docs []interface{}) error
}

type collectionWriter struct{ col *mongo.Collection }

func (w collectionWriter) WriteBatch(ctx context.Context, docs []interface{}) error {
	_, err := w.col.InsertMany(ctx, docs)
	return err
}

// MongoSink batches log documents into a collection from one background
// goroutine. A full queue drops records; logging never blocks a request.
type MongoSink struct {
	client *mongo.Client
	out    batchWriter
	queue  chan LogDocument
	done   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
	level  slog.Leveler
}

// DialMongo connects to uri and returns a sink writing to db.collection.
func DialMongo(ctx context.Context, uri, db, collection string, level slog.Leveler) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(10))
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "time", Value: -1}}}); err != nil {
		Warn("logger: mongo time index", "error", err)
	}

	s := newMongoSink(collectionWriter{col: col}, level)
	s.client = client
	return s, nil
}

func newMongoSink(out batchWriter, level slog.Leveler) *MongoSink {
	if level == nil {
		level = slog.LevelInfo
	}
	s := &MongoSink{
		out:   out,
		queue: make(chan LogDocument, mongoQueueSize),
		done:  make(chan struct{}),
		level: level,
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

// Handler returns the slog.Handler feeding this sink.
func (s *MongoSink) Handler() slog.Handler { return &mongoHandler{sink: s} }

// Close flushes what is queued and disconnects. Safe to call twice.
func (s *MongoSink) Close() {
	s.closed.Do(func() {
		close(s.done)
		s.wg.Wait()
		if s.client != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.client.Disconnect(ctx)
		}
	})
}

func (s *MongoSink) enqueue(doc LogDocument) {
	select {
	case s.queue <- doc:
	default:
	}
}

func (s *MongoSink) drain() {
	defer s.wg.Done()
	ticker := time.NewTicker(mongoFlushTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Failures are dropped; reporting them through the logger would
		// feed the sink its own errors.
		_ = s.out.WriteBatch(ctx, batch)
		batch = make([]interface{}, 0, mongoBatchSize)
	}

	for {
		select {
		case doc := <-s.queue:
			batch = append(batch, doc)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for {
				select {
				case doc := <-s.queue:
					batch = append(batch, doc)
					if len(batch) >= mongoBatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

type mongoHandler struct {
	sink   *MongoSink
	attrs  []slog.Attr
	groups []string
}

func (h *mongoHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.sink.level.Level()
}

func (h *mongoHandler) Handle(_ context.Context, r slog.Record) error {
	h.sink.enqueue(buildDocument(r, h.attrs, h.groups))
	return nil
}

func (h *mongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefixed := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	prefixed = append(prefixed, h.attrs...)
	for _, a := range attrs {
		prefixed = append(prefixed, slog.Attr{Key: qualify(h.groups, a.Key), Value: a.Value})
	}
	return &mongoHandler{sink: h.sink, attrs: prefixed, groups: h.groups}
}

func (h *mongoHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := append(append([]string(nil), h.groups...), name)
	return &mongoHandler{sink: h.sink, attrs: h.attrs, groups: groups}
}

// buildDocument flattens a record. Grouped keys are dotted
// ("http.status"); request_id is lifted to its own field.
func buildDocument(r slog.Record, bound []slog.Attr, groups []string) LogDocument {
	doc := LogDocument{
		Time:  r.Time.UTC(),
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}
	put := func(key string, v slog.Value) {
		v = v.Resolve()
		if key == "request_id" {
			doc.RequestID = v.String()
			return
		}
		if v.Kind() == slog.KindGroup {
			for _, a := range v.Group() {
				doc.Attrs[key+"."+a.Key] = a.Value.Resolve().Any()
			}
			return
		}
		doc.Attrs[key] = v.Any()
	}
	for _, a := range bound {
		put(a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(qualify(groups, a.Key), a.Value)
		return true
	})
	if len(doc.Attrs) == 0 {
		doc.Attrs = nil
	}
	return doc
}

func qualify(groups []string, key string) string {
	if len(groups) == 0 {
		return key
	}
	return strings.Join(groups, ".") + "." + key
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Tee makes L write to extra as well as its current handler.
func Tee(extra slog.Handler) {
	L = slog.New(fanout{L.Handler(), extra})
	slog.SetDefault(L)
}
