// Package main implements a CLI printing the elements of a dicom file,
// or checking that every file in a directory parses
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/cpboyd/simply-dicom-sub002/common"
	"github.com/cpboyd/simply-dicom-sub002/dicom"
)

var log = common.NewConsoleLogger(os.Stderr)

func check(err error) {
	if err != nil {
		log.Fatalf("error: %v", err)
	}
}

func usage() {
	fmt.Printf("simply-dicom version %s\n", common.Version)
	fmt.Printf("usage: %s file_or_dir\n", filepath.Base(os.Args[0]))
	os.Exit(1)
}

func describe(dcm *dicom.Dicom) {
	fmt.Printf("Transfer Syntax: %s (%s)\n", dcm.GetTransferSyntax().Name, dcm.GetTransferSyntax().UID)
	for _, ds := range []dicom.DataSet{dcm.GetMeta(), dcm.GetDataSet()} {
		cs := ds.GetCharacterSet()
		for _, element := range ds.GetElements() {
			for _, line := range element.Describe(cs, 0) {
				fmt.Println(line)
			}
		}
	}
}

func main() {
	if len(os.Args) != 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
	}
	common.GetConfig()
	dicom.SetLogger(log)

	stat, err := os.Stat(os.Args[1])
	check(err)
	if !stat.IsDir() {
		dcm := dicom.NewDicom()
		check(dcm.FromFile(os.Args[1]))
		describe(&dcm)
		return
	}

	var errorCount, successCount int64
	err = common.ConcurrentlyWalkDir(os.Args[1], func(path string) {
		dcm := dicom.NewDicom()
		if err := dcm.FromFile(path); err != nil {
			log.Errorf(`error parsing "%s": %v`, path, err)
			atomic.AddInt64(&errorCount, 1)
			return
		}
		atomic.AddInt64(&successCount, 1)
		log.Debugf(`parsed "%s"`, path)
	})
	check(err)
	if errorCount == 0 {
		log.Infof("parsed %d files without errors", successCount)
	} else {
		log.Infof("parsed %d files without errors, and failed to parse %d files", successCount, errorCount)
	}
}
