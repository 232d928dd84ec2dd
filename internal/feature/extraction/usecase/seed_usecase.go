package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/extraction/domain/convert"
)

// AttributeWriter は属性定義を名前で upsert します。
type AttributeWriter interface {
	UpsertAttribute(ctx context.Context, attr *entity.Attribute) error
}

// SeedUsecase loads attribute definitions into the catalog.
type SeedUsecase struct {
	writer AttributeWriter
}

// NewSeedUsecase creates a SeedUsecase.
func NewSeedUsecase(w AttributeWriter) *SeedUsecase {
	return &SeedUsecase{writer: w}
}

// SeedAttributes validates every definition before writing any of them, then
// upserts them by name. It returns the number of attributes written.
func (u *SeedUsecase) SeedAttributes(ctx context.Context, attrs []entity.Attribute) (int, error) {
	seen := make(map[string]bool, len(attrs))
	for i, a := range attrs {
		if err := validateAttribute(a); err != nil {
			return 0, fmt.Errorf("attribute #%d %q: %w", i+1, a.Name, err)
		}
		if seen[a.Name] {
			return 0, fmt.Errorf("%w: duplicate attribute %q", ErrInvalidArgument, a.Name)
		}
		seen[a.Name] = true
	}

	for i := range attrs {
		if err := u.writer.UpsertAttribute(ctx, &attrs[i]); err != nil {
			return i, fmt.Errorf("save attribute %q: %w", attrs[i].Name, err)
		}
		slog.Info("attribute seeded", "attribute", attrs[i].Name, "id", attrs[i].ID)
	}
	return len(attrs), nil
}

func validateAttribute(a entity.Attribute) error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	case strings.TrimSpace(a.URL) == "":
		return fmt.Errorf("%w: url is required", ErrInvalidArgument)
	case strings.TrimSpace(a.XMLPath) == "":
		return fmt.Errorf("%w: xml_path is required", ErrInvalidArgument)
	}
	if _, err := convert.Compile(a.ConvertExpression); err != nil {
		return err
	}
	return nil
}
