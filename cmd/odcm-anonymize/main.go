// Package main implements a CLI pseudonymizing dicom file(s)
package main

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/cpboyd/simply-dicom-sub002/anonymize"
	"github.com/cpboyd/simply-dicom-sub002/common"
	"github.com/cpboyd/simply-dicom-sub002/dicom"
)

var log = common.NewConsoleLogger(os.Stdout)

func anonymizeFile(a *anonymize.Anonymizer, path, rel, outdir string) {
	dcm := dicom.NewDicom()
	if err := dcm.FromFile(path); err != nil {
		log.Warnf("error parsing %s: %v", path, err)
		return
	}
	if err := a.AnonymizeFile(&dcm); err != nil {
		log.Warnf("error anonymizing %s: %v", path, err)
		return
	}

	outpath := filepath.Join(outdir, rel)
	if err := os.MkdirAll(filepath.Dir(outpath), 0755); err != nil {
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
	if err = dcm.Write(w, dcm.GetTransferSyntax()); err == nil {
		err = w.Flush()
	}
	if err != nil {
		log.Errorf("error writing %s: %v", outpath, err)
		return
	}
	log.Infof("%s -> %s", path, outpath)
}

func main() {
	if len(os.Args) != 3 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		log.Fatalf("usage: %s in_file_or_dir out_dir", filepath.Base(os.Args[0]))
	}
	common.GetConfig()
	dicom.SetLogger(log)
	anonymize.SetLogger(log)

	// one anonymizer for the whole run so that every file of a study maps to the same replacements
	a := anonymize.NewFromConfig()
	log.Infof("anonymizing with salt %d", a.Salt())

	stat, err := os.Stat(os.Args[2])
	if err != nil {
		log.Fatalf("failed to stat '%s': %v", os.Args[2], err)
	}
	if !stat.IsDir() {
		log.Fatalf("%s is not a valid output directory.", os.Args[2])
	}

	stat, err = os.Stat(os.Args[1])
	if err != nil {
		log.Fatalf("failed to stat '%s': %v", os.Args[1], err)
	}
	if !stat.IsDir() {
		anonymizeFile(a, os.Args[1], filepath.Base(os.Args[1]), os.Args[2])
		return
	}
	err = common.ConcurrentlyWalkDir(os.Args[1], func(path string) {
		rel, err := filepath.Rel(os.Args[1], path)
		if err != nil {
			log.Errorf("error: %v", err)
			return
		}
		anonymizeFile(a, path, rel, os.Args[2])
	})
	if err != nil {
		log.Fatalf("error walking %s: %v", os.Args[1], err)
	}
}
