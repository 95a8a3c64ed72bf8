package xlog

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ xLogCore = (xLogMultiCore)(nil)

type xLogMultiCore []xLogCore

// writeSyncer implements xLogCore.
func (mc xLogMultiCore) writeSyncer() zapcore.WriteSyncer {
	syncers := make([]zapcore.WriteSyncer, 0, len(mc))
	for i := range mc {
		syncers = append(syncers, mc[i].writeSyncer())
	}
	return zapcore.NewMultiWriteSyncer(syncers...)
}

func (mc xLogMultiCore) With(fields []zap.Field) zapcore.Core {
	clone := make([]zapcore.Core, len(mc))
	for i := range mc {
		clone[i] = mc[i].With(fields)
	}
	return zapcore.NewTee(clone...)
}

func (mc xLogMultiCore) Enabled(lvl zapcore.Level) bool {
	for i := range mc {
		if mc[i].Enabled(lvl) {
			return true
		}
	}
	return false
}

func (mc xLogMultiCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	for i := range mc {
		ce = mc[i].Check(ent, ce)
	}
	return ce
}

func (mc xLogMultiCore) Write(ent zapcore.Entry, fields []zap.Field) error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Write(ent, fields))
	}
	return err
}

func (mc xLogMultiCore) Sync() error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Sync())
	}
	return err
}

// XLogTeeCore drops the nil cores.
func XLogTeeCore(cores ...xLogCore) xLogCore {
	mc := make(xLogMultiCore, 0, len(cores))
	for _, c := range cores {
		if c != nil {
			mc = append(mc, c)
		}
	}
	return mc
}
