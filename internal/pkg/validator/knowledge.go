package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quorix/kb-backend/internal/config"
	"github.com/quorix/kb-backend/internal/entity"
)

// Validator validates knowledge source and agent payloads
type Validator struct {
	cfg config.KnowledgeConfig
}

func NewKnowledgeValidator(cfg config.KnowledgeConfig) *Validator {
	return &Validator{cfg: cfg}
}

func (v *Validator) ValidateCreateEntry(req *entity.CreateEntryRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name", entity.ErrMissingField)
	}
	if len(req.Name) > v.cfg.MaxNameLength {
		return fmt.Errorf("%w: name is %d characters (max %d)", entity.ErrInvalidParameter, len(req.Name), v.cfg.MaxNameLength)
	}
	if req.Content == "" {
		return fmt.Errorf("%w: content", entity.ErrMissingField)
	}
	if int64(len(req.Content)) > v.cfg.MaxContentBytes {
		return fmt.Errorf("%w: content is %d bytes (max %d)", entity.ErrContentTooLarge, len(req.Content), v.cfg.MaxContentBytes)
	}
	if req.UsageContext != "" {
		if err := req.UsageContext.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) ValidateRegisterIndex(req *entity.RegisterIndexRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name", entity.ErrMissingField)
	}
	if len(req.Name) > v.cfg.MaxNameLength {
		return fmt.Errorf("%w: name is %d characters (max %d)", entity.ErrInvalidParameter, len(req.Name), v.cfg.MaxNameLength)
	}
	if strings.TrimSpace(req.IndexName) == "" {
		return fmt.Errorf("%w: index_name", entity.ErrMissingField)
	}
	if strings.ContainsAny(req.IndexName, " \t\n") {
		return fmt.Errorf("%w: index_name must not contain whitespace", entity.ErrInvalidFormat)
	}

	return nil
}

// SanitizeFilename sanitizes a name for use as a download filename
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
		"/", "",
		"\\", "",
	)
	return replacer.Replace(name)
}

func (v *Validator) ValidateCreateAgent(req *entity.CreateAgentRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name", entity.ErrMissingField)
	}
	if len(req.Name) > v.cfg.MaxNameLength {
		return fmt.Errorf("%w: name is %d characters (max %d)", entity.ErrInvalidParameter, len(req.Name), v.cfg.MaxNameLength)
	}

	return nil
}
