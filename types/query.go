package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

type SummarizeParams struct {
	Prompt     string `json:"prompt" validate:"required"`
	DocumentID string `json:"document_id,omitempty"`
	TopK       int    `json:"top_k,omitempty" validate:"omitempty,min=1,max=50"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *SummarizeParams) Validate() map[string]string {
	return validateStruct(params)
}

func validateStruct(s any) map[string]string {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

type SummarizeResponse struct {
	Summary    string            `json:"summary"`
	Sources    []RetrievalResult `json:"sources"`
	Intent     IntentInfo        `json:"intent"`
	Timestamp  time.Time         `json:"timestamp"`
	ChunkCount int               `json:"chunk_count"`
}

type IntentInfo struct {
	Format string `json:"format"`
	Focus  string `json:"focus"`
}

type UploadResponse struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	Chunks     int      `json:"chunks"`
	File       FileInfo `json:"file"`
}
