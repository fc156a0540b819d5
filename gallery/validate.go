package gallery

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"young-portfolio/config"
	"young-portfolio/model"
)

// IsValidImageFile reports whether the filename carries a supported image
// extension.
func IsValidImageFile(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range config.SupportedImageFormats {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsValidFileSize reports whether the byte size is within the per-file cap.
func IsValidFileSize(sizeInBytes int64) bool {
	return sizeInBytes <= config.MaxFileSizeMB<<20
}

// ValidateEventName enforces the 2-50 character event name policy. Lengths
// count characters, not bytes, since event names are mostly CJK.
func ValidateEventName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		return errors.New("事件名稱不能為空")
	case n < 2:
		return errors.New("事件名稱至少需要2個字符")
	case n > 50:
		return errors.New("事件名稱不能超過50個字符")
	}
	return nil
}

func ValidateEventDescription(description string) error {
	if utf8.RuneCountInString(description) > 200 {
		return errors.New("事件描述不能超過200個字符")
	}
	return nil
}

func ValidateEventLocation(location string) error {
	if utf8.RuneCountInString(location) > 100 {
		return errors.New("事件地點不能超過100個字符")
	}
	return nil
}

// ValidateEvent runs every event field check and collects the failures.
func ValidateEvent(e model.Event) []error {
	var errs []error
	if err := ValidateEventName(e.Name); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateEventDescription(e.Description); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateEventLocation(e.Location); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// ValidateUpload checks an incoming file before it is stored.
func ValidateUpload(filename string, size int64) error {
	if !IsValidImageFile(filename) {
		return fmt.Errorf("不支援的檔案格式: %s", filename)
	}
	if !IsValidFileSize(size) {
		return fmt.Errorf("檔案大小不能超過 %dMB", config.MaxFileSizeMB)
	}
	return nil
}
