package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/gartstein/workforce/internal/employee/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeReader serves queued messages, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.messages) > 0 {
		msg := f.messages[0]
		f.messages = f.messages[1:]
		f.mu.Unlock()
		return msg, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestConsumer_Run(t *testing.T) {
	good, err := json.Marshal(NewEvent(EmployeeCreated, &models.Employee{ID: 5, FirstName: "Ann"}))
	require.NoError(t, err)
	rejected, err := json.Marshal(NewEvent(EmployeeDeleted, &models.Employee{ID: 6}))
	require.NoError(t, err)

	reader := &fakeReader{messages: []kafka.Message{
		{Key: []byte("5"), Value: good},
		{Key: []byte("x"), Value: []byte("{not json")},
		{Key: []byte("6"), Value: rejected},
	}}
	core, recorded := observer.New(zap.ErrorLevel)
	consumer := &Consumer{reader: reader, logger: zap.New(core)}

	ctx, cancel := context.WithCancel(context.Background())
	var handled []Event
	consumer.RegisterHandler(func(_ context.Context, event Event) error {
		handled = append(handled, event)
		if event.Type == EmployeeDeleted {
			cancel()
			return errors.New("rejected")
		}
		return nil
	})

	consumer.Run(ctx)

	require.Len(t, handled, 2)
	assert.Equal(t, int64(5), handled[0].Employee.ID)
	assert.Equal(t, "Ann", handled[0].Employee.FirstName)
	require.Len(t, reader.committed, 1, "only accepted events are committed")
	assert.Equal(t, []byte("5"), reader.committed[0].Key)
	assert.Equal(t, 1, recorded.FilterMessage("Failed to parse event").Len())
	assert.Equal(t, 1, recorded.FilterMessage("Failed to handle event").Len())

	consumer.Close()
	assert.True(t, reader.closed)
}
