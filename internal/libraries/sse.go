package libraries

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
)

// DoneSentinel is the data of the last event of a completed stream
const DoneSentinel = "[DONE]"

// FragmentPayload carries one relayed text fragment
type FragmentPayload struct {
	Text string `json:"text"`
}

// ErrorPayload tells the browser the stream failed after it started
type ErrorPayload struct {
	Error string `json:"error"`
}

// EventWriter writes server-sent events and flushes after each one so
// fragments reach the browser as they arrive. A write or flush error means
// the caller went away.
type EventWriter struct {
	w *bufio.Writer
}

func NewEventWriter(w *bufio.Writer) *EventWriter {
	return &EventWriter{w: w}
}

func (e *EventWriter) WriteFragment(text string) error {
	return e.writeJSON(FragmentPayload{Text: text})
}

func (e *EventWriter) WriteError(message string) error {
	return e.writeJSON(ErrorPayload{Error: message})
}

func (e *EventWriter) WriteDone() error {
	return e.writeData([]byte(DoneSentinel))
}

// WriteComment writes an SSE comment line. Browsers ignore it; a failed
// write reveals a dropped connection while upstream is quiet.
func (e *EventWriter) WriteComment(text string) error {
	if _, err := fmt.Fprintf(e.w, ": %s\n\n", text); err != nil {
		return err
	}
	return e.w.Flush()
}

func (e *EventWriter) writeJSON(v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return e.writeData(bytes.TrimRight(buf.Bytes(), "\n"))
}

func (e *EventWriter) writeData(data []byte) error {
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return err
	}
	return e.w.Flush()
}
