// Package main implements a CLI re-encoding dicom file(s) in another uncompressed transfer syntax
package main

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/cpboyd/simply-dicom-sub002/common"
	"github.com/cpboyd/simply-dicom-sub002/dicom"
)

var log = common.NewConsoleLogger(os.Stdout)

// transcode writes `path` re-encoded as `ts` to the same relative location beneath `outdir`.
func transcode(path, rel, outdir string, ts dicom.TransferSyntax) {
	infile, err := os.Open(path)
	if err != nil {
		log.Errorf("error opening %s: %v", path, err)
		return
	}
	defer infile.Close()

	outpath := filepath.Join(outdir, rel)
	if err = os.MkdirAll(filepath.Dir(outpath), 0755); err != nil {
		log.Errorf("error: %v", err)
		return
	}
	outfile, err := os.Create(outpath)
	if err != nil {
		log.Errorf("error: %v", err)
		return
	}
	defer outfile.Close()

	w := bufio.NewWriter(outfile)
	err = dicom.TranscodeFile(bufio.NewReader(infile), w, ts)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		log.Warnf("error transcoding %s: %v", path, err)
		outfile.Close()
		if err = os.Remove(outpath); err != nil {
			log.Errorf("error deleting partial output: %v", err)
		}
		return
	}
	log.Infof("%s -> %s", path, outpath)
}

func main() {
	if len(os.Args) != 4 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		log.Fatalf("usage: %s in_file_or_dir out_dir (implicit|explicit|big)", filepath.Base(os.Args[0]))
	}
	config := common.GetConfig()
	dicom.SetLogger(log)

	encoding, err := dicom.ParseEncoding(os.Args[3])
	if err != nil {
		log.Fatalf("%v", err)
	}
	ts := dicom.TransferSyntaxForEncoding(encoding)
	log.Debugf("target: %s, buffer size %d, strict %v", ts, config.BufferSize, config.StrictMode)

	// validate out_dir
	stat, err := os.Stat(os.Args[2])
	if err != nil {
		log.Fatalf("failed to stat '%s': %v", os.Args[2], err)
	}
	if !stat.IsDir() {
		log.Fatalf("%s is not a valid output directory.", os.Args[2])
	}

	// validate input file/directory
	stat, err = os.Stat(os.Args[1])
	if err != nil {
		log.Fatalf("failed to stat '%s': %v", os.Args[1], err)
	}
	if !stat.IsDir() {
		transcode(os.Args[1], filepath.Base(os.Args[1]), os.Args[2], ts)
		return
	}
	err = common.ConcurrentlyWalkDir(os.Args[1], func(path string) {
		rel, err := filepath.Rel(os.Args[1], path)
		if err != nil {
			log.Errorf("error: %v", err)
			return
		}
		transcode(path, rel, os.Args[2], ts)
	})
	if err != nil {
		log.Fatalf("error walking %s: %v", os.Args[1], err)
	}
}
