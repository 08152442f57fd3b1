package repo

import (
	"fmt"
	"strings"

	"github.com/grit-scm/grit/pkg/object"
)

// CreateTag creates or moves a lightweight tag: refs/tags/<name> pointing
// straight at whatever target resolves to.
func (r *Repo) CreateTag(name, target string) error {
	if err := validateTagName(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	h, err := r.FindObject(target, "", true)
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if err := r.CreateRef("refs/tags/"+name, h); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// CreateAnnotatedTag stores a tag object for the resolved target and points
// refs/tags/<name> at it. The tag object carries the standard headers
// (object, type, tag, tagger) and the given message. Returns the tag
// object's hash.
func (r *Repo) CreateAnnotatedTag(name, target, message string) (object.Hash, error) {
	if err := validateTagName(name); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	h, err := r.FindObject(target, "", true)
	if err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	targetType, _, err := r.Store.Read(h)
	if err != nil {
		return "", fmt.Errorf("create annotated tag: read target: %w", err)
	}

	if message == "" {
		message = "a tag created by grit"
	}
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	fields := object.NewKVLM()
	fields.Add("object", []byte(h))
	fields.Add("type", []byte(targetType))
	fields.Add("tag", []byte(name))
	fields.Add("tagger", []byte(r.Config.Tagger()))
	fields.Message = []byte(message)

	tagHash, err := r.Store.WriteTag(&object.Tag{Fields: fields}, true)
	if err != nil {
		return "", fmt.Errorf("create annotated tag: write tag object: %w", err)
	}
	if err := r.CreateRef("refs/tags/"+name, tagHash); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	return tagHash, nil
}

func validateTagName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("tag name is required")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("invalid tag name %q", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid tag name %q", name)
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("invalid tag name %q", name)
	}
	return nil
}
