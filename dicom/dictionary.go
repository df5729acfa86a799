package dicom

import (
	"fmt"

	dcmtag "github.com/suyashkumar/dicom/pkg/tag"
)

// DictEntry describes a registered attribute.
type DictEntry struct {
	Tag  Tag
	Name string
	VR   string
}

// Attributes this package refers to by name. Their entries take precedence over
// the PS3.6 data dictionary consulted by `LookupTag` for every other tag.
const (
	CommandGroupLengthTag             Tag = 0x00000000
	FileMetaInformationVersionTag     Tag = 0x00020001
	MediaStorageSOPClassUIDTag        Tag = 0x00020002
	MediaStorageSOPInstanceUIDTag     Tag = 0x00020003
	ImplementationClassUIDTag         Tag = 0x00020012
	ImplementationVersionNameTag      Tag = 0x00020013
	SourceApplicationEntityTitleTag   Tag = 0x00020016
	ImageTypeTag                      Tag = 0x00080008
	InstanceCreationDateTag           Tag = 0x00080012
	SOPClassUIDTag                    Tag = 0x00080016
	SOPInstanceUIDTag                 Tag = 0x00080018
	StudyDateTag                      Tag = 0x00080020
	SeriesDateTag                     Tag = 0x00080021
	ContentDateTag                    Tag = 0x00080023
	StudyTimeTag                      Tag = 0x00080030
	AccessionNumberTag                Tag = 0x00080050
	ModalityTag                       Tag = 0x00080060
	ManufacturerTag                   Tag = 0x00080070
	InstitutionNameTag                Tag = 0x00080080
	ReferringPhysicianNameTag         Tag = 0x00080090
	CodeValueTag                      Tag = 0x00080100
	CodingSchemeDesignatorTag         Tag = 0x00080102
	CodeMeaningTag                    Tag = 0x00080104
	StationNameTag                    Tag = 0x00081010
	StudyDescriptionTag               Tag = 0x00081030
	ProcedureCodeSequenceTag          Tag = 0x00081032
	SeriesDescriptionTag              Tag = 0x0008103E
	ReferencedStudySequenceTag        Tag = 0x00081110
	ReferencedImageSequenceTag        Tag = 0x00081140
	ReferencedSOPClassUIDTag          Tag = 0x00081150
	ReferencedSOPInstanceUIDTag       Tag = 0x00081155
	PatientNameTag                    Tag = 0x00100010
	PatientIDTag                      Tag = 0x00100020
	IssuerOfPatientIDTag              Tag = 0x00100021
	PatientBirthDateTag               Tag = 0x00100030
	PatientSexTag                     Tag = 0x00100040
	OtherPatientIDsTag                Tag = 0x00101000
	OtherPatientNamesTag              Tag = 0x00101001
	OtherPatientIDsSequenceTag        Tag = 0x00101002
	PatientAgeTag                     Tag = 0x00101010
	PatientWeightTag                  Tag = 0x00101030
	SliceThicknessTag                 Tag = 0x00180050
	KVPTag                            Tag = 0x00180060
	SoftwareVersionsTag               Tag = 0x00181020
	StudyInstanceUIDTag               Tag = 0x0020000D
	SeriesInstanceUIDTag              Tag = 0x0020000E
	StudyIDTag                        Tag = 0x00200010
	SeriesNumberTag                   Tag = 0x00200011
	InstanceNumberTag                 Tag = 0x00200013
	ImagePositionPatientTag           Tag = 0x00200032
	ImageOrientationPatientTag        Tag = 0x00200037
	FrameOfReferenceUIDTag            Tag = 0x00200052
	SliceLocationTag                  Tag = 0x00201041
	SamplesPerPixelTag                Tag = 0x00280002
	PhotometricInterpretationTag      Tag = 0x00280004
	NumberOfFramesTag                 Tag = 0x00280008
	FrameIncrementPointerTag          Tag = 0x00280009
	RowsTag                           Tag = 0x00280010
	ColumnsTag                        Tag = 0x00280011
	PixelSpacingTag                   Tag = 0x00280030
	BitsAllocatedTag                  Tag = 0x00280100
	BitsStoredTag                     Tag = 0x00280101
	HighBitTag                        Tag = 0x00280102
	PixelRepresentationTag            Tag = 0x00280103
	SmallestImagePixelValueTag        Tag = 0x00280106
	LargestImagePixelValueTag         Tag = 0x00280107
	WindowCenterTag                   Tag = 0x00281050
	WindowWidthTag                    Tag = 0x00281051
	RescaleInterceptTag               Tag = 0x00281052
	RescaleSlopeTag                   Tag = 0x00281053
	RedPaletteColorLookupTableDataTag Tag = 0x00281201
	LUTDescriptorTag                  Tag = 0x00283002
	LUTDataTag                        Tag = 0x00283006
	ModalityLUTSequenceTag            Tag = 0x00283000
	VOILUTSequenceTag                 Tag = 0x00283010
	ReferencedFrameNumberTag          Tag = 0x00081160
	RequestAttributesSequenceTag      Tag = 0x00400275
	ContentSequenceTag                Tag = 0x0040A730
	RealWorldValueFirstValueMappedTag Tag = 0x00409216
	FloatPixelDataTag                 Tag = 0x7FE00008
	DoubleFloatPixelDataTag           Tag = 0x7FE00009
	DataSetTrailingPaddingTag         Tag = 0xFFFCFFFC
)

var dictionary = map[Tag]DictEntry{
	FileMetaInformationGroupLengthTag: {FileMetaInformationGroupLengthTag, "FileMetaInformationGroupLength", "UL"},
	FileMetaInformationVersionTag:     {FileMetaInformationVersionTag, "FileMetaInformationVersion", "OB"},
	MediaStorageSOPClassUIDTag:        {MediaStorageSOPClassUIDTag, "MediaStorageSOPClassUID", "UI"},
	MediaStorageSOPInstanceUIDTag:     {MediaStorageSOPInstanceUIDTag, "MediaStorageSOPInstanceUID", "UI"},
	TransferSyntaxUIDTag:              {TransferSyntaxUIDTag, "TransferSyntaxUID", "UI"},
	ImplementationClassUIDTag:         {ImplementationClassUIDTag, "ImplementationClassUID", "UI"},
	ImplementationVersionNameTag:      {ImplementationVersionNameTag, "ImplementationVersionName", "SH"},
	SourceApplicationEntityTitleTag:   {SourceApplicationEntityTitleTag, "SourceApplicationEntityTitle", "AE"},
	SpecificCharacterSetTag:           {SpecificCharacterSetTag, "SpecificCharacterSet", "CS"},
	ImageTypeTag:                      {ImageTypeTag, "ImageType", "CS"},
	InstanceCreationDateTag:           {InstanceCreationDateTag, "InstanceCreationDate", "DA"},
	SOPClassUIDTag:                    {SOPClassUIDTag, "SOPClassUID", "UI"},
	SOPInstanceUIDTag:                 {SOPInstanceUIDTag, "SOPInstanceUID", "UI"},
	StudyDateTag:                      {StudyDateTag, "StudyDate", "DA"},
	SeriesDateTag:                     {SeriesDateTag, "SeriesDate", "DA"},
	ContentDateTag:                    {ContentDateTag, "ContentDate", "DA"},
	StudyTimeTag:                      {StudyTimeTag, "StudyTime", "TM"},
	AccessionNumberTag:                {AccessionNumberTag, "AccessionNumber", "SH"},
	ModalityTag:                       {ModalityTag, "Modality", "CS"},
	ManufacturerTag:                   {ManufacturerTag, "Manufacturer", "LO"},
	InstitutionNameTag:                {InstitutionNameTag, "InstitutionName", "LO"},
	ReferringPhysicianNameTag:         {ReferringPhysicianNameTag, "ReferringPhysicianName", "PN"},
	CodeValueTag:                      {CodeValueTag, "CodeValue", "SH"},
	CodingSchemeDesignatorTag:         {CodingSchemeDesignatorTag, "CodingSchemeDesignator", "SH"},
	CodeMeaningTag:                    {CodeMeaningTag, "CodeMeaning", "LO"},
	StationNameTag:                    {StationNameTag, "StationName", "SH"},
	StudyDescriptionTag:               {StudyDescriptionTag, "StudyDescription", "LO"},
	ProcedureCodeSequenceTag:          {ProcedureCodeSequenceTag, "ProcedureCodeSequence", "SQ"},
	SeriesDescriptionTag:              {SeriesDescriptionTag, "SeriesDescription", "LO"},
	ReferencedStudySequenceTag:        {ReferencedStudySequenceTag, "ReferencedStudySequence", "SQ"},
	ReferencedImageSequenceTag:        {ReferencedImageSequenceTag, "ReferencedImageSequence", "SQ"},
	ReferencedSOPClassUIDTag:          {ReferencedSOPClassUIDTag, "ReferencedSOPClassUID", "UI"},
	ReferencedSOPInstanceUIDTag:       {ReferencedSOPInstanceUIDTag, "ReferencedSOPInstanceUID", "UI"},
	ReferencedFrameNumberTag:          {ReferencedFrameNumberTag, "ReferencedFrameNumber", "IS"},
	PatientNameTag:                    {PatientNameTag, "PatientName", "PN"},
	PatientIDTag:                      {PatientIDTag, "PatientID", "LO"},
	IssuerOfPatientIDTag:              {IssuerOfPatientIDTag, "IssuerOfPatientID", "LO"},
	PatientBirthDateTag:               {PatientBirthDateTag, "PatientBirthDate", "DA"},
	PatientSexTag:                     {PatientSexTag, "PatientSex", "CS"},
	OtherPatientIDsTag:                {OtherPatientIDsTag, "OtherPatientIDs", "LO"},
	OtherPatientNamesTag:              {OtherPatientNamesTag, "OtherPatientNames", "PN"},
	OtherPatientIDsSequenceTag:        {OtherPatientIDsSequenceTag, "OtherPatientIDsSequence", "SQ"},
	PatientAgeTag:                     {PatientAgeTag, "PatientAge", "AS"},
	PatientWeightTag:                  {PatientWeightTag, "PatientWeight", "DS"},
	SliceThicknessTag:                 {SliceThicknessTag, "SliceThickness", "DS"},
	KVPTag:                            {KVPTag, "KVP", "DS"},
	SoftwareVersionsTag:               {SoftwareVersionsTag, "SoftwareVersions", "LO"},
	StudyInstanceUIDTag:               {StudyInstanceUIDTag, "StudyInstanceUID", "UI"},
	SeriesInstanceUIDTag:              {SeriesInstanceUIDTag, "SeriesInstanceUID", "UI"},
	StudyIDTag:                        {StudyIDTag, "StudyID", "SH"},
	SeriesNumberTag:                   {SeriesNumberTag, "SeriesNumber", "IS"},
	InstanceNumberTag:                 {InstanceNumberTag, "InstanceNumber", "IS"},
	ImagePositionPatientTag:           {ImagePositionPatientTag, "ImagePositionPatient", "DS"},
	ImageOrientationPatientTag:        {ImageOrientationPatientTag, "ImageOrientationPatient", "DS"},
	FrameOfReferenceUIDTag:            {FrameOfReferenceUIDTag, "FrameOfReferenceUID", "UI"},
	SliceLocationTag:                  {SliceLocationTag, "SliceLocation", "DS"},
	SamplesPerPixelTag:                {SamplesPerPixelTag, "SamplesPerPixel", "US"},
	PhotometricInterpretationTag:      {PhotometricInterpretationTag, "PhotometricInterpretation", "CS"},
	NumberOfFramesTag:                 {NumberOfFramesTag, "NumberOfFrames", "IS"},
	FrameIncrementPointerTag:          {FrameIncrementPointerTag, "FrameIncrementPointer", "AT"},
	RowsTag:                           {RowsTag, "Rows", "US"},
	ColumnsTag:                        {ColumnsTag, "Columns", "US"},
	PixelSpacingTag:                   {PixelSpacingTag, "PixelSpacing", "DS"},
	BitsAllocatedTag:                  {BitsAllocatedTag, "BitsAllocated", "US"},
	BitsStoredTag:                     {BitsStoredTag, "BitsStored", "US"},
	HighBitTag:                        {HighBitTag, "HighBit", "US"},
	PixelRepresentationTag:            {PixelRepresentationTag, "PixelRepresentation", "US"},
	SmallestImagePixelValueTag:        {SmallestImagePixelValueTag, "SmallestImagePixelValue", "US"},
	LargestImagePixelValueTag:         {LargestImagePixelValueTag, "LargestImagePixelValue", "US"},
	WindowCenterTag:                   {WindowCenterTag, "WindowCenter", "DS"},
	WindowWidthTag:                    {WindowWidthTag, "WindowWidth", "DS"},
	RescaleInterceptTag:               {RescaleInterceptTag, "RescaleIntercept", "DS"},
	RescaleSlopeTag:                   {RescaleSlopeTag, "RescaleSlope", "DS"},
	RedPaletteColorLookupTableDataTag: {RedPaletteColorLookupTableDataTag, "RedPaletteColorLookupTableData", "OW"},
	ModalityLUTSequenceTag:            {ModalityLUTSequenceTag, "ModalityLUTSequence", "SQ"},
	LUTDescriptorTag:                  {LUTDescriptorTag, "LUTDescriptor", "US"},
	LUTDataTag:                        {LUTDataTag, "LUTData", "OW"},
	VOILUTSequenceTag:                 {VOILUTSequenceTag, "VOILUTSequence", "SQ"},
	RequestAttributesSequenceTag:      {RequestAttributesSequenceTag, "RequestAttributesSequence", "SQ"},
	RealWorldValueFirstValueMappedTag: {RealWorldValueFirstValueMappedTag, "RealWorldValueFirstValueMapped", "US"},
	ContentSequenceTag:                {ContentSequenceTag, "ContentSequence", "SQ"},
	FloatPixelDataTag:                 {FloatPixelDataTag, "FloatPixelData", "OF"},
	DoubleFloatPixelDataTag:           {DoubleFloatPixelDataTag, "DoubleFloatPixelData", "OD"},
	PixelDataTag:                      {PixelDataTag, "PixelData", "OW"},
	DataSetTrailingPaddingTag:         {DataSetTrailingPaddingTag, "DataSetTrailingPadding", "OB"},
}

// LookupTag searches for the dictionary entry of `t`.
// Group lengths and private creators are derived from the tag itself; standard
// attributes come from the PS3.6 data dictionary. Any other tag yields an
// "Unknown" entry with VR "UN" and `found` false.
func LookupTag(t uint32) (entry DictEntry, found bool) {
	if e, ok := dictionary[Tag(t)]; ok {
		return e, true
	}
	tag := Tag(t)
	switch {
	case IsGroupLengthElement(t):
		return DictEntry{Tag: tag, Name: "GroupLength", VR: "UL"}, true
	case IsPrivateCreatorDataElement(t):
		return DictEntry{Tag: tag, Name: "PrivateCreator", VR: "LO"}, true
	case IsPrivateDataElement(t):
		// private attributes are never in the standard dictionary
	default:
		info, err := dcmtag.Find(dcmtag.Tag{Group: tag.Group(), Element: tag.Element()})
		if err == nil && len(info.VRs) > 0 {
			return DictEntry{Tag: tag, Name: info.Name, VR: implicitVR(info.VRs)}, true
		}
	}
	return DictEntry{Tag: tag, Name: fmt.Sprintf("Unknown%s", tag), VR: "UN"}, false
}

// implicitVR picks the VR an implicit VR stream uses for an attribute registered
// with several ("US or SS", "OB or OW"): OW when allowed, the first one otherwise.
func implicitVR(vrs []string) string {
	for _, vr := range vrs {
		if vr == "OW" {
			return vr
		}
	}
	if !IsRecognisedVR(vrs[0]) {
		return "UN"
	}
	return vrs[0]
}

// VROf returns the VR registered for `t`, or "UN".
func VROf(t uint32) string {
	e, _ := LookupTag(t)
	return e.VR
}
