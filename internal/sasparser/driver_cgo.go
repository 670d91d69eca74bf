//go:build sasrow_cgo

package sasparser

/*
#cgo LDFLAGS: -lreadstat
#include <stdlib.h>
#include <string.h>
#include <readstat.h>

extern int goMetadataHandler(readstat_metadata_t *metadata, void *ctx);
extern int goVariableHandler(int index, readstat_variable_t *variable, const char *val_labels, void *ctx);
extern int goValueHandler(int obs_index, readstat_variable_t *variable, readstat_value_t value, void *ctx);

extern int goOpenHandler(const char *path, void *io_ctx);
extern int goCloseHandler(void *io_ctx);
extern readstat_off_t goSeekHandler(readstat_off_t offset, readstat_io_flags_t whence, void *io_ctx);
extern ssize_t goReadHandler(void *buf, size_t nbytes, void *io_ctx);

static readstat_error_t sasrow_install_metadata_handlers(readstat_parser_t *p) {
	readstat_error_t err;
	if ((err = readstat_set_metadata_handler(p, (readstat_metadata_handler)goMetadataHandler)) != READSTAT_OK) return err;
	if ((err = readstat_set_variable_handler(p, (readstat_variable_handler)goVariableHandler)) != READSTAT_OK) return err;
	return READSTAT_OK;
}

static readstat_error_t sasrow_install_value_handler(readstat_parser_t *p) {
	return readstat_set_value_handler(p, (readstat_value_handler)goValueHandler);
}

static readstat_error_t sasrow_install_io_handlers(readstat_parser_t *p) {
	readstat_error_t err;
	if ((err = readstat_set_open_handler(p, goOpenHandler)) != READSTAT_OK) return err;
	if ((err = readstat_set_close_handler(p, goCloseHandler)) != READSTAT_OK) return err;
	if ((err = readstat_set_seek_handler(p, goSeekHandler)) != READSTAT_OK) return err;
	if ((err = readstat_set_read_handler(p, goReadHandler)) != READSTAT_OK) return err;
	return READSTAT_OK;
}
*/
import "C"

import (
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/sasrow/sasrow/internal/sasrowerr"
)

func init() {
	newDriver = func() (Driver, error) {
		p := C.readstat_parser_init()
		if p == nil {
			return nil, &sasrowerr.IoError{Op: "readstat_parser_init", Err: stubError("allocation failed")}
		}
		return &cgoDriver{parser: p}, nil
	}
}

// byteReader backs the in-memory/mmap input strategies: readstat's open,
// seek, read and close handlers are redirected here instead of touching a
// real file descriptor.
type byteReader struct {
	data   []byte
	offset int64
}

// cgoDriver owns one readstat_parser_t. It is rebuilt for every parse
// because readstat_parser_t handler registration is one-shot per session
// in practice, and the orchestrator already allocates one Driver per
// concurrently-running chunk.
type cgoDriver struct {
	mu     sync.Mutex
	parser *C.readstat_parser_t
	closed bool
}

func (d *cgoDriver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	C.readstat_parser_free(d.parser)
	d.closed = true
}

func (d *cgoDriver) ParseMetadata(in Input, sink Sink) error {
	return d.parse(in, 0, 0, sink, StageMetadata)
}

func (d *cgoDriver) ParseData(in Input, rowOffset, rowLimit int64, sink Sink) error {
	return d.parse(in, rowOffset, rowLimit, sink, StageValues)
}

func (d *cgoDriver) parse(in Input, rowOffset, rowLimit int64, sink Sink, stage sasrowerr.Stage) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := checkOK(C.sasrow_install_metadata_handlers(d.parser), stage); err != nil {
		return err
	}
	if stage == StageValues {
		// The metadata pass installs only the metadata and variable
		// handlers, so readstat never fires a no-op value callback for
		// every cell while scanning the whole file for a metadata-only
		// read (row_limit=0 is "unlimited" to readstat, not "zero").
		if err := checkOK(C.sasrow_install_value_handler(d.parser), stage); err != nil {
			return err
		}
	}
	if rowOffset > 0 {
		if err := checkOK(C.readstat_set_row_offset(d.parser, C.long(rowOffset)), stage); err != nil {
			return err
		}
	}
	if err := checkOK(C.readstat_set_row_limit(d.parser, C.long(rowLimit)), stage); err != nil {
		return err
	}

	sinkHandle := cgo.NewHandle(sink)
	defer sinkHandle.Delete()
	userCtx := unsafe.Pointer(uintptr(sinkHandle))

	if in.isByteSpan() {
		br := &byteReader{data: in.Bytes}
		ioHandle := cgo.NewHandle(br)
		defer ioHandle.Delete()

		if err := checkOK(C.sasrow_install_io_handlers(d.parser), stage); err != nil {
			return err
		}
		if err := checkOK(C.readstat_set_io_ctx(d.parser, unsafe.Pointer(uintptr(ioHandle))), stage); err != nil {
			return err
		}
		dummyPath := C.CString("")
		defer C.free(unsafe.Pointer(dummyPath))
		rc := C.readstat_parse_sas7bdat(d.parser, dummyPath, userCtx)
		return checkOK(rc, stage)
	}

	cpath := C.CString(in.Path)
	defer C.free(unsafe.Pointer(cpath))
	rc := C.readstat_parse_sas7bdat(d.parser, cpath, userCtx)
	return checkOK(rc, stage)
}

// checkOK translates a non-zero readstat_error_t into a *sasrowerr.ParseError.
func checkOK(rc C.readstat_error_t, stage sasrowerr.Stage) error {
	code := int(rc)
	if code == 0 {
		return nil
	}
	return &sasrowerr.ParseError{Code: code, Name: errCodeName(code), Stage: stage}
}

// StageMetadata/StageValues are re-exported here only for readability in
// this file's call sites; they are the same constants sasrowerr defines.
const (
	StageMetadata = sasrowerr.StageMetadata
	StageValues   = sasrowerr.StageValues
)
