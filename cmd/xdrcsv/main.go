// Command xdrcsv converts a captured stream of length-prefixed
// Command/Response envelopes into CSV, adapted from cmd/csvtool's
// ArchiveRecord-to-CSV conversion: the same read-everything-then-marshal
// shape, but decoding IPC envelopes instead of netlink snapshots and
// writing rows with gocsv.Marshal or, with -render, by hand into a
// render.Builder.
package main

import (
	"encoding/binary"
	"flag"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/m-lab/go/rtx"

	"github.com/polysat/satnet-ipc/ipc"
	"github.com/polysat/satnet-ipc/ipcnet"
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/render"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

var (
	useRenderStyle = flag.Bool("render", false, "emit CSV written directly into a render.Builder instead of via gocsv row structs")
)

// envelopeRow is the flat, gocsv-tagged summary of one decoded envelope,
// mirroring snapshot.Snapshot's role as the struct gocsv.Marshal walks
// via field tags rather than a FieldDefinition table.
type envelopeRow struct {
	Kind     string `csv:"kind"`
	Cmd      uint32 `csv:"cmd"`
	IPCRef   uint32 `csv:"ipcref"`
	Result   uint32 `csv:"result"`
	DiscType uint32 `csv:"type"`
}

// readFrames splits rdr into length-prefixed frames: a 4-byte
// big-endian length followed by that many bytes of encoded envelope,
// the capture format a host loop would append to when logging wire
// traffic to disk. Framing is resolved through ipcnet.FrameBuffer the
// same way a live socket's accumulated bytes are.
func readFrames(rdr io.Reader) ([][]byte, error) {
	raw, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}

	fb := ipcnet.NewFrameBuffer()
	fb.Append(raw)

	var frames [][]byte
	fb.Process(func(buf []byte) int {
		if len(buf) < 4 {
			return 0
		}
		n := int(binary.BigEndian.Uint32(buf[:4]))
		if n < 0 || len(buf) < 4+n {
			return 0
		}
		frame := make([]byte, n)
		copy(frame, buf[4:4+n])
		frames = append(frames, frame)
		return 4 + n
	})
	return frames, nil
}

func decodeRows(frames [][]byte, r *registry.Registry) []*envelopeRow {
	rows := make([]*envelopeRow, 0, len(frames))
	for _, f := range frames {
		if resp, err := ipc.DecodeResponse(f, r); err == nil && resp.Cmd == ipc.ResponseSentinel {
			rows = append(rows, &envelopeRow{
				Kind:     "response",
				Cmd:      resp.Cmd,
				IPCRef:   resp.IPCRef,
				Result:   uint32(resp.Result),
				DiscType: uint32(resp.Data.Type),
			})
			continue
		}
		if cmd, err := ipc.DecodeCommand(f, r); err == nil {
			rows = append(rows, &envelopeRow{
				Kind:     "command",
				Cmd:      cmd.Cmd,
				IPCRef:   cmd.IPCRef,
				DiscType: uint32(cmd.Parameters.Type),
			})
			continue
		}
		log.Println("WARNING: could not decode frame, skipping")
	}
	return rows
}

func openFile(fn string) (io.ReadCloser, error) {
	if fn == "-" || fn == "" {
		return os.Stdin, nil
	}
	return os.Open(fn)
}

func main() {
	flag.Parse()
	args := flag.Args()

	fn := "-"
	if len(args) == 1 {
		fn = args[0]
	} else if len(args) > 1 {
		log.Fatal("Too many command-line arguments.")
	}

	source, err := openFile(fn)
	rtx.Must(err, "Could not open file %q", fn)
	defer source.Close()

	frames, err := readFrames(source)
	rtx.Must(err, "Could not read frames")

	r := registry.New()
	rows := decodeRows(frames, r)

	if *useRenderStyle {
		rtx.Must(writeRenderCSV(rows, os.Stdout), "Could not render CSV")
		return
	}
	rtx.Must(gocsv.Marshal(rows, os.Stdout), "Could not convert input to CSV")
}

// writeRenderCSV emits the same rows gocsv.Marshal would, but through
// render.Builder's two-pass-friendly buffer rather than struct tags, as
// an alternative output path for callers who'd rather not pull in
// gocsv.
func writeRenderCSV(rows []*envelopeRow, w io.Writer) error {
	b := render.NewBuilder(64 * len(rows))
	b.WriteString("kind,cmd,ipcref,result,type\n")
	for _, row := range rows {
		b.WriteString(row.Kind)
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(row.Cmd), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(row.IPCRef), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(row.Result), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(row.DiscType), 10))
		b.WriteByte('\n')
	}
	_, err := w.Write(b.Bytes())
	return err
}
