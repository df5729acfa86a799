package dicom

import "go.uber.org/zap"

// log receives diagnostics from the codec. It discards everything until `SetLogger` is called.
var log = zap.NewNop().Sugar()

// SetLogger routes the package's diagnostics to `l`. Passing nil silences them again.
// It is not safe to call concurrently with reading or writing.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	log = l
}
