package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// manualBoard returns a board whose scheduled clears run only when the test fires them.
func manualBoard() (*Board, *[]func()) {
	b := NewBoard(time.Second)
	var pending []func()
	b.schedule = func(_ time.Duration, f func()) { pending = append(pending, f) }
	return b, &pending
}

func Test_Board_ClearsAfterDuration(t *testing.T) {
	// given
	b, pending := manualBoard()

	// when
	b.Notify("Product updated successfully.", Success)

	// then
	assert.Equal(t, Message{Text: "Product updated successfully.", Kind: Success}, b.Current())
	(*pending)[0]()
	assert.Equal(t, Message{}, b.Current())
}

func Test_Board_OlderClearKeepsNewerMessage(t *testing.T) {
	// given
	b, pending := manualBoard()
	b.Notify("first", Success)
	b.Notify("second", Error)

	// when
	(*pending)[0]()

	// then
	assert.Equal(t, Message{Text: "second", Kind: Error}, b.Current())
	(*pending)[1]()
	assert.Equal(t, Message{}, b.Current())
}

func Test_Board_RealTimer(t *testing.T) {
	b := NewBoard(10 * time.Millisecond)

	b.Notify("gone soon", Success)

	assert.Eventually(t, func() bool { return b.Current() == Message{} }, time.Second, 5*time.Millisecond)
}

func Test_NewBoard_DefaultDuration(t *testing.T) {
	assert.Equal(t, DefaultDuration, NewBoard(0).duration)
}

func Test_Printer(t *testing.T) {
	// given
	var out, errOut bytes.Buffer
	p := &Printer{Out: &out, Err: &errOut}

	// when
	p.Notify("Product ID 1 deleted successfully.", Success)
	p.Notify("Error deleting product: Product not found.", Error)

	// then
	assert.Equal(t, "Product ID 1 deleted successfully.\n", out.String())
	assert.Equal(t, "Error deleting product: Product not found.\n", errOut.String())
}
