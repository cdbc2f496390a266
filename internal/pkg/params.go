package pkg

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/blogbase/internal/domain"
)

// ParseID extracts a positive numeric id from the named URL parameter.
// Failures are validation errors.
func ParseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, domain.Validation("invalid " + name + ": " + raw)
	}
	return uint(id), nil
}

// LikeEscape is the ESCAPE clause matching the patterns built by Contains.
// '!' is used since backslash is itself an escape in MySQL string literals.
const LikeEscape = "ESCAPE '!'"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Contains returns a LIKE pattern matching s as a literal substring. Use it
// as "col LIKE ? " + LikeEscape.
func Contains(s string) string {
	return "%" + likeReplacer.Replace(s) + "%"
}
