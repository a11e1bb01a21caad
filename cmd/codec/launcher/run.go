package launcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/velfel-krunoslav/DataCompression/codec"
	"github.com/velfel-krunoslav/DataCompression/utils/entropy"
)

var ErrFileOpen = errors.New("file open failed")

// fallbackSuffix is appended when a decoded file name has no extension to drop.
const fallbackSuffix = ".out"

func run(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging, ctx.App.ErrWriter)
	if err != nil {
		return err
	}

	switch cfg.Codec.Mode {
	case ModeEncode:
		err = encodeFile(cfg.Codec, log)
	case ModeDecode:
		err = decodeFile(cfg.Codec, log)
	}
	if err != nil {
		log.WithError(err).WithField("file", cfg.Codec.Input).Error("Failed to " + cfg.Codec.Mode.String())
	}
	return err
}

func encodeFile(cfg CodecConfig, log logrus.FieldLogger) error {
	start := time.Now()

	in, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOpen, err)
	}

	e, err := codec.NewEncoder(codec.WithMaxSize(cfg.MaxSize), codec.WithLogger(log))
	if err != nil {
		return err
	}
	if _, err := e.Write(in); err != nil {
		return err
	}
	out, err := e.Finish()
	if err != nil {
		return err
	}

	dst := encodedName(cfg.Input, cfg.Extension)
	if err := writeFileAtomic(dst, out); err != nil {
		return err
	}

	fields := logrus.Fields{
		"input":   cfg.Input,
		"output":  dst,
		"size":    datasize.ByteSize(len(in)).HumanReadable(),
		"encoded": datasize.ByteSize(len(out)).HumanReadable(),
		"elapsed": time.Since(start),
	}
	if cfg.Stats {
		s := e.Stats()
		fields["entropy"] = entropy.Of(in)
		fields["entries"] = s.Entries
		fields["codes"] = s.Codes
		fields["tree"] = datasize.ByteSize(s.TreeBytes).HumanReadable()
		fields["stream"] = datasize.ByteSize(s.StreamBytes).HumanReadable()
		fields["frozen"] = s.Frozen
		if len(in) > 0 {
			fields["ratio"] = float64(len(out)) / float64(len(in))
		}
	}
	log.WithFields(fields).Info("Encoded file")
	return nil
}

func decodeFile(cfg CodecConfig, log logrus.FieldLogger) error {
	start := time.Now()

	raw, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOpen, err)
	}

	d, err := codec.NewDecoder(codec.WithCacheSize(cfg.CacheSize), codec.WithLogger(log))
	if err != nil {
		return err
	}
	out, err := d.Decode(raw)
	if err != nil {
		return fmt.Errorf("decode %s: %w", cfg.Input, err)
	}

	dst := decodedName(cfg.Input)
	if err := writeFileAtomic(dst, out); err != nil {
		return err
	}

	fields := logrus.Fields{
		"input":   cfg.Input,
		"output":  dst,
		"size":    datasize.ByteSize(len(out)).HumanReadable(),
		"elapsed": time.Since(start),
	}
	if cfg.Stats {
		s := d.Stats()
		fields["entropy"] = entropy.Of(out)
		fields["entries"] = s.Entries
		fields["codes"] = s.Codes
		fields["cacheHits"] = s.CacheHits
	}
	log.WithFields(fields).Info("Decoded file")
	return nil
}

func encodedName(path, ext string) string {
	return path + "." + ext
}

// decodedName drops the last extension of path, or appends fallbackSuffix
// when there is none.
func decodedName(path string) string {
	ext := filepath.Ext(path)
	if ext == "" || ext == filepath.Base(path) {
		return path + fallbackSuffix
	}
	return path[:len(path)-len(ext)]
}

// writeFileAtomic writes data to a temp file next to path and renames it over
// path, so a failed run leaves no partial output.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	return nil
}
