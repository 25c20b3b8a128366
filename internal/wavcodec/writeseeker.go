package wavcodec

import (
	"fmt"
	"io"
)

// writeSeeker is an in-memory io.WriteSeeker. The wav encoder needs to
// seek back to patch the RIFF and data chunk sizes after writing the
// samples, which bytes.Buffer cannot do.
type writeSeeker struct {
	buf []byte
	pos int64
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.pos + int64(len(p))
	if end > int64(len(ws.buf)) {
		grown := make([]byte, end)
		copy(grown, ws.buf)
		ws.buf = grown
	}
	copy(ws.buf[ws.pos:end], p)
	ws.pos = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = ws.pos + offset
	case io.SeekEnd:
		pos = int64(len(ws.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	ws.pos = pos
	return pos, nil
}
