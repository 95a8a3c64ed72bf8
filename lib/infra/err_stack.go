package infra

import (
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// References:
// https://github.com/pkg/errors/blob/master/stack.go

const (
	unknownFile  = "unknownFile"
	unknownFunc  = "unknownFunc"
	unknownFrame = "unknownFrame"
	maxDepth     = 32
)

type Frame uintptr

func (frame Frame) pc() uintptr {
	return uintptr(frame) - 1
}

func (frame Frame) fileLine() (string, int) {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return unknownFile, 0
	}
	return fn.FileLine(frame.pc())
}

func (frame Frame) name() string {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return unknownFunc
	}
	return fn.Name()
}

// Format characters:
// %s - source file
// %d - source line
// %n - function name
// %v - equivalent to %s:%d
// %+s - function name and full path, separated by \n\t
// %+v - equivalent to %+s:%d
func (frame Frame) Format(s fmt.State, verb rune) {
	file, line := frame.fileLine()
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = io.WriteString(s, frame.name())
			_, _ = io.WriteString(s, "\n\t")
			_, _ = io.WriteString(s, file)
		} else {
			_, _ = io.WriteString(s, path.Base(file))
		}
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(line))
	case 'n':
		_, _ = io.WriteString(s, funcName(frame.name()))
	case 'v':
		frame.Format(s, 's')
		_, _ = io.WriteString(s, ":")
		frame.Format(s, 'd')
	}
}

// "<func> <file>:<line>"
func (frame Frame) String() string {
	name := frame.name()
	if name == unknownFunc {
		return unknownFrame
	}
	file, line := frame.fileLine()
	builder := strings.Builder{}
	_, _ = builder.WriteString(name)
	_, _ = builder.WriteString(" ")
	_, _ = builder.WriteString(file)
	_, _ = builder.WriteString(":")
	_, _ = builder.WriteString(strconv.Itoa(line))
	return builder.String()
}

// For fmt.Sprintf("%+v", frame).
// If json.Marshaler interface isn't implemented, the MarshalText method is used.
func (frame Frame) MarshalText() ([]byte, error) {
	return []byte(frame.String()), nil
}

func (frame Frame) MarshalJSON() ([]byte, error) {
	name := frame.name()
	if name == unknownFunc {
		return []byte("{\"frame\":\"" + unknownFrame + "\"}"), nil
	}
	file, line := frame.fileLine()
	return []byte("{\"func\":" + strconv.Quote(name) +
		",\"fileAndLine\":" + strconv.Quote(file+":"+strconv.Itoa(line)) + "}"), nil
}

func funcName(name string) string {
	i := strings.LastIndex(name, "/")
	name = name[i+1:]
	i = strings.Index(name, ".")
	return name[i+1:]
}

type stack []uintptr

// skip 0 is runtime.Callers itself, 1 is callers.
func callers(skip int) stack {
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[0:n]
}

func (s stack) frames() []Frame {
	frames := make([]Frame, 0, len(s))
	for _, pc := range s {
		frames = append(frames, Frame(pc))
	}
	return frames
}

// ErrorStack is an error carrying the frames where it was created.
// It can be inlined into the zap log entry as an object.
type ErrorStack interface {
	error
	zapcore.ObjectMarshaler
	Unwrap() error
	Frames() []Frame
}

var _ ErrorStack = (*errorStack)(nil)

type errorStack struct {
	err   error
	msg   string
	stack stack
}

func (es *errorStack) Error() string {
	if es.err == nil {
		return es.msg
	}
	if len(es.msg) == 0 {
		return es.err.Error()
	}
	return es.msg + ": " + es.err.Error()
}

func (es *errorStack) Unwrap() error {
	return es.err
}

func (es *errorStack) Frames() []Frame {
	return es.stack.frames()
}

// %s, %v print the error message only.
// %+v prints the error message and each frame with %+v.
func (es *errorStack) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, es.Error())
		if s.Flag('+') {
			for _, frame := range es.Frames() {
				_, _ = io.WriteString(s, "\n")
				frame.Format(s, verb)
			}
		}
	case 's':
		_, _ = io.WriteString(s, es.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", es.Error())
	}
}

// MarshalLogObject
// {"error": "<msg>", "errors": ["<err1>", ...], "errorStack": ["<func> <file>:<line>", ...]}
func (es *errorStack) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("error", es.Error())
	if errs := multierr.Errors(es.err); len(errs) > 1 {
		if err := enc.AddArray("errors", zapcore.ArrayMarshalerFunc(func(ae zapcore.ArrayEncoder) error {
			for _, e := range errs {
				ae.AppendString(e.Error())
			}
			return nil
		})); err != nil {
			return err
		}
	}
	return enc.AddArray("errorStack", zapcore.ArrayMarshalerFunc(func(ae zapcore.ArrayEncoder) error {
		for _, frame := range es.Frames() {
			ae.AppendString(frame.String())
		}
		return nil
	}))
}

func NewErrorStack(msg string) error {
	return &errorStack{
		err:   errors.New(msg),
		stack: callers(3),
	}
}

func WrapErrorStack(err error) error {
	if err == nil {
		return nil
	}
	return &errorStack{
		err:   err,
		stack: callers(3),
	}
}

func WrapErrorStackWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &errorStack{
		err:   err,
		msg:   msg,
		stack: callers(3),
	}
}
