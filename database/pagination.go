package database

import "gorm.io/gorm"

// Listing orders end on the primary key so pages stay stable when the
// leading columns tie
const (
	accountOrder = "date_joined DESC, id ASC"
	contactOrder = "created_at DESC, id ASC"
	projectOrder = "display_order ASC, created_at DESC, id ASC"
)

// Offset returns the index of the first record on a 1-indexed page
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// Window returns the half-open slice bounds [start, end) of a page within
// total records, clamped to the collection
func Window(total, page, pageSize int) (start, end int) {
	start = Offset(page, pageSize)
	if start > total {
		start = total
	}
	end = start + pageSize
	if pageSize < 1 || end > total {
		end = total
	}
	return start, end
}

func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(Offset(page, pageSize)).Limit(pageSize)
	}
}

// likePattern builds a case-insensitive substring pattern, escaping wildcards in q
func likePattern(q string) string {
	escaped := make([]rune, 0, len(q)+2)
	escaped = append(escaped, '%')
	for _, r := range q {
		if r == '%' || r == '_' || r == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, r)
	}
	return string(append(escaped, '%'))
}
