package model

import internalmodel "github.com/goliatone/go-cogform/internal/model"

type (
	FieldKind = internalmodel.FieldKind
	FileKind  = internalmodel.FileKind
	SlotKind  = internalmodel.SlotKind
	Field     = internalmodel.Field
	Slot      = internalmodel.Slot
	FormModel = internalmodel.FormModel
	Input     = internalmodel.Input
)

const (
	FieldKindText    = internalmodel.FieldKindText
	FieldKindInteger = internalmodel.FieldKindInteger
	FieldKindFloat   = internalmodel.FieldKindFloat
	FieldKindBoolean = internalmodel.FieldKindBoolean
	FieldKindEnum    = internalmodel.FieldKindEnum
	FieldKindRange   = internalmodel.FieldKindRange
	FieldKindFile    = internalmodel.FieldKindFile

	FileKindImage   = internalmodel.FileKindImage
	FileKindAudio   = internalmodel.FileKindAudio
	FileKindVideo   = internalmodel.FileKindVideo
	FileKindGeneric = internalmodel.FileKindGeneric

	SlotKindImage      = internalmodel.SlotKindImage
	SlotKindAudio      = internalmodel.SlotKindAudio
	SlotKindVideo      = internalmodel.SlotKindVideo
	SlotKindText       = internalmodel.SlotKindText
	SlotKindStructured = internalmodel.SlotKindStructured

	TagImage  = internalmodel.TagImage
	TagAudio  = internalmodel.TagAudio
	TagVideo  = internalmodel.TagVideo
	TagString = internalmodel.TagString
	TagList   = internalmodel.TagList
	TagJSON   = internalmodel.TagJSON
)

// DetectFileType returns the coarse type tag for an example value.
func DetectFileType(value any) string {
	return internalmodel.DetectFileType(value)
}

// ClassifyOutputs maps type tags onto output slots.
func ClassifyOutputs(tags []string) []Slot {
	return internalmodel.ClassifyOutputs(tags)
}
