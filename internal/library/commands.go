package library

import (
	"context"

	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/match"
)

// MatchFilesByHash pairs files with products by content digest. Unreadable
// files are reported unmatched; only cancellation returns an error.
func (s *Service) MatchFilesByHash(ctx context.Context, files []match.File) (match.HashResult, error) {
	idx, err := s.Index()
	if err != nil {
		return match.HashResult{}, err
	}
	return match.ByHash(ctx, idx, files, s.logger)
}

// MatchFilesByName suggests products for files whose names contain a liver's
// name
func (s *Service) MatchFilesByName(files []match.File) (match.NameResult, error) {
	idx, err := s.Index()
	if err != nil {
		return match.NameResult{}, err
	}
	result := match.ByName(idx, files)
	s.logger.Debug("name match complete", "files", len(files), "matched", len(result.Matches))
	return result, nil
}

// requireProduct checks the product exists in the loaded catalog
func (s *Service) requireProduct(productID string) error {
	idx, err := s.Index()
	if err != nil {
		return err
	}
	if _, ok := idx.Product(productID); !ok {
		return domain.ErrUnknownProduct
	}
	return nil
}

// SetPurchased marks or unmarks a product as owned
func (s *Service) SetPurchased(productID string, purchased bool) error {
	if err := s.requireProduct(productID); err != nil {
		return err
	}
	if err := s.annotations.SetPurchased(productID, purchased); err != nil {
		s.logger.Error("failed to set purchased", "error", err, "productID", productID)
		return annotationErr("set purchased flag", err)
	}
	s.logger.Debug("set purchased", "productID", productID, "purchased", purchased)
	return nil
}

// TogglePurchased flips a product's purchased flag and returns the new value
func (s *Service) TogglePurchased(productID string) (bool, error) {
	if err := s.requireProduct(productID); err != nil {
		return false, err
	}
	current, err := s.annotations.IsPurchased(productID)
	if err != nil {
		return false, annotationErr("read purchased flag", err)
	}
	if err := s.annotations.SetPurchased(productID, !current); err != nil {
		s.logger.Error("failed to toggle purchased", "error", err, "productID", productID)
		return current, annotationErr("set purchased flag", err)
	}
	s.logger.Debug("toggled purchased", "productID", productID, "purchased", !current)
	return !current, nil
}

// SetFileLink links a local file to a product. An empty path removes the
// link.
func (s *Service) SetFileLink(productID, path string) error {
	if err := s.requireProduct(productID); err != nil {
		return err
	}
	if path == "" {
		return s.RemoveFileLink(productID)
	}
	if err := s.annotations.SetFileLink(productID, path); err != nil {
		s.logger.Error("failed to set file link", "error", err, "productID", productID)
		return annotationErr("set file link", err)
	}
	s.logger.Debug("linked file", "productID", productID, "path", path)
	return nil
}

// RemoveFileLink drops a product's file link
func (s *Service) RemoveFileLink(productID string) error {
	if err := s.annotations.RemoveFileLink(productID); err != nil {
		s.logger.Error("failed to remove file link", "error", err, "productID", productID)
		return annotationErr("remove file link", err)
	}
	return nil
}

// FileLink returns the linked file of a product
func (s *Service) FileLink(productID string) (string, bool, error) {
	path, ok, err := s.annotations.FileLink(productID)
	if err != nil {
		return "", false, annotationErr("read file link", err)
	}
	return path, ok, nil
}

// SetTags replaces a product's tags. An empty list removes them.
func (s *Service) SetTags(productID string, tags []string) error {
	if err := s.requireProduct(productID); err != nil {
		return err
	}
	if err := s.annotations.SetTags(productID, tags); err != nil {
		s.logger.Error("failed to set tags", "error", err, "productID", productID)
		return annotationErr("set tags", err)
	}
	return nil
}

// Tags returns a product's tags
func (s *Service) Tags(productID string) ([]string, error) {
	tags, err := s.annotations.Tags(productID)
	if err != nil {
		return nil, annotationErr("read tags", err)
	}
	return tags, nil
}

// UpdateSetting validates and stores a setting. The favourite liver must be
// a known liver, or empty to clear it.
func (s *Service) UpdateSetting(key, value string) error {
	if err := domain.ValidateSetting(key, value); err != nil {
		return err
	}
	if key == domain.SettingOshiLiverID && value != "" {
		idx, err := s.Index()
		if err != nil {
			return err
		}
		if _, ok := idx.Liver(value); !ok {
			return domain.ErrUnknownLiver
		}
	}
	if err := s.annotations.SetSetting(key, value); err != nil {
		s.logger.Error("failed to save setting", "error", err, "key", key)
		return annotationErr("save setting", err)
	}
	s.logger.Info("updated setting", "key", key, "value", value)
	return nil
}

// ClearAll wipes every annotation. The catalog is untouched.
func (s *Service) ClearAll() error {
	if err := s.annotations.ClearAll(); err != nil {
		s.logger.Error("failed to clear annotations", "error", err)
		return annotationErr("clear annotations", err)
	}
	s.logger.Info("cleared all annotations")
	return nil
}
