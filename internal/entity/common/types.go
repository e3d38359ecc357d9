package common

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// TagSeparator joins tags inside the posts.tags column.
const TagSeparator = "|"

// TagList 以分隔符拼接的字符串格式存储有序标签。
type TagList []string

// NormalizeTags trims each tag, drops empty ones and strips the separator so that
// joining and splitting give back the same sequence.
func NormalizeTags(tags []string) TagList {
	out := make(TagList, 0, len(tags))
	for _, tag := range tags {
		cleaned := strings.TrimSpace(strings.ReplaceAll(tag, TagSeparator, ""))
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

// JoinTags renders tags in their stored form.
func JoinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

// SplitTags parses the stored form; the empty string is the empty list.
func SplitTags(value string) TagList {
	if value == "" {
		return TagList{}
	}
	return TagList(strings.Split(value, TagSeparator))
}

// Value 实现 driver.Valuer 接口。
func (t TagList) Value() (driver.Value, error) {
	return JoinTags(t), nil
}

// Scan 实现 sql.Scanner 接口。
func (t *TagList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = TagList{}
		return nil
	case []byte:
		*t = SplitTags(string(v))
		return nil
	case string:
		*t = SplitTags(v)
		return nil
	default:
		return fmt.Errorf("unsupported type for TagList: %T", value)
	}
}

// GormDataType stores tags as text.
func (TagList) GormDataType() string {
	return "text"
}

// ToSlice 返回底层切片的副本。
func (t TagList) ToSlice() []string {
	out := make([]string, len(t))
	copy(out, t)
	return out
}
