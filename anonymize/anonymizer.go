// Package anonymize pseudonymizes the identifying attributes of a data set.
// Replacement values are derived from a salted SHA-1 of the original values, so the
// same input and salt always produce the same output, and studies stay linked together.
package anonymize

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/cpboyd/simply-dicom-sub002/common"
	"github.com/cpboyd/simply-dicom-sub002/dicom"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	// RandomSalt requests a fresh random salt.
	RandomSalt int64 = 0
	// DailySalt requests a salt that is stable for the current UTC day.
	DailySalt int64 = 1

	// maxAgeDays bounds the synthesized age of a patient (roughly 97 years).
	maxAgeDays = 35600
	// idLength is the number of hex digits kept for replacement IDs.
	idLength = 14
)

var log = zap.NewNop().Sugar()

// SetLogger routes the package's diagnostics to `l`.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	log = l
}

// Anonymizer replaces patient demographics, study identifiers and instance UIDs.
type Anonymizer struct {
	salt int64
	now  func() time.Time
}

// New returns an Anonymizer for `salt`. `RandomSalt` and `DailySalt` select a generated salt;
// any other value is used verbatim, for reproducible output.
func New(salt int64) *Anonymizer {
	return NewWithClock(salt, time.Now)
}

// NewWithClock is New with the reference clock used for daily salts and synthesized dates.
func NewWithClock(salt int64, now func() time.Time) *Anonymizer {
	switch salt {
	case RandomSalt:
		salt = rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
	case DailySalt:
		salt = now().UTC().Unix() / (24 * 60 * 60)
	}
	return &Anonymizer{salt: salt, now: now}
}

// NewFromConfig returns an Anonymizer using the salt from `common.GetConfig()`.
func NewFromConfig() *Anonymizer {
	return New(common.GetConfig().Salt)
}

// Salt returns the effective salt.
func (a *Anonymizer) Salt() int64 {
	return a.salt
}

// Hash returns the hex encoded SHA-1 of `text` followed by the decimal salt,
// with the text taken as ISO 8859-1.
func (a *Anonymizer) Hash(text string) string {
	latin1 := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	b, err := latin1.Bytes([]byte(text + strconv.FormatInt(a.salt, 10)))
	if err != nil {
		// unreachable with ReplaceUnsupported; hash the raw bytes regardless
		b = []byte(text + strconv.FormatInt(a.salt, 10))
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// DecodeLong reads eight bytes of the hex string `h` starting at byte `posn`,
// wrapping around its end, as a big endian integer and returns its magnitude.
func DecodeLong(h string, posn int) uint64 {
	data, err := hex.DecodeString(h)
	if err != nil || len(data) == 0 {
		return 0
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(data[(posn+i)%len(data)])
	}
	if int64(v) < 0 {
		v = -v
	}
	return v
}

// original returns the current value of `tag`, or the tag in lower case hex when absent.
func original(ds dicom.DataSet, tag dicom.Tag) string {
	if v, found := ds.GetString(uint32(tag)); found {
		return v
	}
	return fmt.Sprintf("%x", uint32(tag))
}

// UpdateID replaces an identifier (Patient ID, Accession Number, Study ID...)
// with the first 14 hex digits of its hash, which it returns.
func (a *Anonymizer) UpdateID(ds dicom.DataSet, tag dicom.Tag) (string, error) {
	v := strings.ReplaceAll(a.Hash(original(ds, tag))[:idLength], "+", "_")
	if err := ds.PutString(uint32(tag), "", v); err != nil {
		return "", err
	}
	return v, nil
}

// UpdateUID replaces a UID with one under the UUID derived root built from three
// windows of its hash. The hash is returned so callers can derive further values from it.
//
// When `tag` is absent its lower case hex number (e.g. "80018") is hashed in place
// of the value, not a fixed placeholder, so absent UIDs of different tags differ.
func (a *Anonymizer) UpdateUID(ds dicom.DataSet, tag dicom.Tag) (string, error) {
	v := a.Hash(original(ds, tag))
	uid := common.UUIDDerivedUID(DecodeLong(v, 0), DecodeLong(v, 8), DecodeLong(v, 16))
	if err := ds.PutString(uint32(tag), "UI", uid); err != nil {
		return "", err
	}
	return v, nil
}

// Anonymize pseudonymizes `ds` in place.
func (a *Anonymizer) Anonymize(ds dicom.DataSet) error {
	newPid, err := a.UpdateID(ds, dicom.PatientIDTag)
	if err != nil {
		return err
	}
	if err = ds.PutString(uint32(dicom.IssuerOfPatientIDTag), "LO", "Anon"); err != nil {
		return err
	}

	lastID := DecodeLong(newPid, 0)
	firstID := DecodeLong(newPid, 1)
	last := lastNames[lastID%uint64(len(lastNames))]
	sex, found := ds.GetString(uint32(dicom.PatientSexTag))
	isFemale := strings.EqualFold(sex, "F")
	if !found || strings.EqualFold(sex, "O") {
		// half of the time choose a female name for "Other"
		isFemale = firstID&0x100 != 0
	}
	var first string
	if isFemale {
		first = femaleFirstNames[firstID%uint64(len(femaleFirstNames))]
	} else {
		first = maleFirstNames[firstID%uint64(len(maleFirstNames))]
	}
	if err = ds.PutString(uint32(dicom.PatientNameTag), "PN", last+"^"+first+"^anonymous"); err != nil {
		return err
	}

	duration := 1 + int(firstID%maxAgeDays)
	birth := a.now().AddDate(0, 0, -duration)
	if err = ds.PutDate(uint32(dicom.PatientBirthDateTag), birth); err != nil {
		return err
	}
	newStudyUID, err := a.UpdateUID(ds, dicom.StudyInstanceUIDTag)
	if err != nil {
		return err
	}
	studyDate := birth.AddDate(0, 0, int(DecodeLong(newStudyUID, 0)%uint64(duration)))
	if err = ds.PutDate(uint32(dicom.StudyDateTag), studyDate); err != nil {
		return err
	}
	ds.RemoveElement(uint32(dicom.OtherPatientIDsTag))
	ds.RemoveElement(uint32(dicom.OtherPatientIDsSequenceTag))

	for _, tag := range []dicom.Tag{dicom.SeriesInstanceUIDTag, dicom.SOPInstanceUIDTag} {
		if _, err = a.UpdateUID(ds, tag); err != nil {
			return err
		}
	}
	if ds.HasElement(uint32(dicom.MediaStorageSOPInstanceUIDTag)) {
		if _, err = a.UpdateUID(ds, dicom.MediaStorageSOPInstanceUIDTag); err != nil {
			return err
		}
	}
	for _, tag := range []dicom.Tag{dicom.AccessionNumberTag, dicom.StudyIDTag} {
		if _, err = a.UpdateID(ds, tag); err != nil {
			return err
		}
	}
	log.Debugw("anonymized data set", "patientID", newPid, "patientName", last+"^"+first)
	return nil
}

// AnonymizeFile pseudonymizes the data set of `dcm` and the Media Storage SOP Instance UID
// of its meta group, which then matches the replaced SOP Instance UID.
func (a *Anonymizer) AnonymizeFile(dcm *dicom.Dicom) error {
	if err := a.Anonymize(dcm.GetDataSet()); err != nil {
		return err
	}
	meta := dcm.GetMeta()
	if meta.HasElement(uint32(dicom.MediaStorageSOPInstanceUIDTag)) {
		if _, err := a.UpdateUID(meta, dicom.MediaStorageSOPInstanceUIDTag); err != nil {
			return err
		}
	}
	return nil
}
