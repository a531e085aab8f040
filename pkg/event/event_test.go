package event_test

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/shirtshop/pkg/event"
	"github.com/stretchr/testify/assert"
)

func TestFire_CallsListenersInOrder(t *testing.T) {
	event.Flush()
	defer event.Flush()

	var got []int
	event.Listen("order.placed", func(_ context.Context, p interface{}) { got = append(got, p.(int)) })
	event.Listen("order.placed", func(_ context.Context, p interface{}) { got = append(got, p.(int)*10) })
	event.Listen("order.shipped", func(_ context.Context, _ interface{}) { t.Fatal("wrong event") })

	event.Fire(context.Background(), "order.placed", 4)

	assert.Equal(t, []int{4, 40}, got)
}
