package kart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageQueue(t *testing.T) {
	q := NewMessageQueue()
	q.Add("lap 2", 1)
	q.Add("lap 2", 0.5)
	q.Add("", 1)
	q.Add("flash", 0)
	assert.Equal(t, 2, q.Len())

	q.Update(0.6)
	assert.Equal(t, []Message{{Text: "lap 2", TTL: 0.4}}, roundTTL(q.Messages()))

	q.Add("lap 2", 2)
	q.Update(1)
	assert.True(t, q.Has("lap 2"))
	q.Update(1)
	assert.Equal(t, 0, q.Len())

	var nilQueue *MessageQueue
	nilQueue.Add("x", 1)
	nilQueue.Update(1)
	assert.Nil(t, nilQueue.Messages())
}

func roundTTL(msgs []Message) []Message {
	for i := range msgs {
		msgs[i].TTL = float64(int(msgs[i].TTL*1000+0.5)) / 1000
	}
	return msgs
}

func TestCameraShake(t *testing.T) {
	c := NewCamera()
	c.Shake(1, 2)
	assert.True(t, c.Shaking())
	assert.Equal(t, 2.0, c.ShakeAmplitude())

	c.Shake(5, 1)
	c.Update(0.5)
	assert.InDelta(t, 1.0, c.ShakeAmplitude(), 1e-12, "weaker shake does not replace a stronger one")

	c.Update(0.5)
	assert.False(t, c.Shaking())
	assert.Equal(t, 0.0, c.ShakeAmplitude())

	var none *Camera
	none.Shake(1, 1)
	none.Update(1)
	assert.Equal(t, CameraNormal, none.Mode())
	assert.False(t, none.Shaking())
}
