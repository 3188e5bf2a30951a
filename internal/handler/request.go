package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
)

var errInvalidParams = pkg.ErrValidation.WithMsg("invalid params")

// flexID 兼容数字和数字字符串两种写法
type flexID uint64

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*id = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*id = flexID(v)
	return nil
}

func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, pkg.ErrValidation.WithMsg("Invalid id")
	}
	return id, nil
}

// queryID 参数缺省时返回 nil
func queryID(c *gin.Context, key string) (*uint64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, pkg.ErrValidation.WithMsg("Invalid " + key)
	}
	return &id, nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// parseDate 字段缺省返回 ok=false；null 或空串表示清空
func parseDate(raw json.RawMessage) (t *time.Time, ok bool, err error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, true, pkg.ErrValidation.WithMsg("Invalid date")
	}
	if s == "" {
		return nil, true, nil
	}
	for _, layout := range dateLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return &v, true, nil
		}
	}
	return nil, true, pkg.ErrValidation.WithMsg("Invalid date: " + s)
}

// parseMembers 成员可以是逗号分隔的名字，也可以是对象数组或字符串数组
func parseMembers(raw json.RawMessage) ([]model.Member, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return []model.Member{}, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		out := []model.Member{}
		for _, name := range strings.Split(s, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, model.Member{Name: name})
			}
		}
		return out, true, nil
	}
	var members []model.Member
	if err := json.Unmarshal(raw, &members); err == nil {
		return members, true, nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		out := make([]model.Member, 0, len(names))
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, model.Member{Name: name})
			}
		}
		return out, true, nil
	}
	return nil, true, pkg.ErrValidation.WithMsg("Invalid members")
}
