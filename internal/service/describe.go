package service

import (
	"context"
	"fmt"
	"strings"

	"insales/catsync/internal/domain"
	"insales/catsync/internal/hierarchy"

	log "github.com/sirupsen/logrus"
)

// GenerateDescription asks the model for a category description. With apply set
// the result is sent to the category right away.
func (s *Service) GenerateDescription(ctx context.Context, categoryID int64, instructions string, apply bool) (string, error) {
	categories, err := s.client.ListAllCategories(ctx)
	if err != nil {
		return "", err
	}
	path, err := hierarchy.Breadcrumb(categories, categoryID)
	if err != nil {
		return "", err
	}
	category, err := s.client.GetCategory(ctx, categoryID)
	if err != nil {
		return "", err
	}

	content := describePrompt(category, path, instructions)

	log.Infof("🔄 Generating description for %q", category.Title)

	var text string
	if s.assistantID != "" {
		text, err = s.ai.RunAssistant(ctx, s.assistantID, content)
	} else {
		text, err = s.ai.Complete(ctx, content)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate description for category %d: %w", categoryID, err)
	}

	if apply {
		update := domain.CategoryUpdate{CategoryID: categoryID, Description: text}
		if err := s.applyUpdate(ctx, update, "generated description"); err != nil {
			return text, err
		}
		log.Infof("✅ Description of %q updated", category.Title)
	}
	return text, nil
}

func describePrompt(category *domain.Category, path []string, instructions string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Категория: %s\n", category.Title)
	fmt.Fprintf(&b, "Путь: %s\n", strings.Join(path, hierarchy.PathSeparator))
	if category.HTMLTitle != "" {
		fmt.Fprintf(&b, "SEO заголовок: %s\n", category.HTMLTitle)
	}
	if category.Description != "" {
		fmt.Fprintf(&b, "Текущее описание:\n%s\n", category.Description)
	}
	if instructions != "" {
		fmt.Fprintf(&b, "\n%s\n", instructions)
	}
	return b.String()
}
