package httpserver

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ledger/internal/domain"
)

const dateLayout = "2006-01-02"

func querySort(c *gin.Context, defaultAscending bool, allowed ...domain.SortBy) (domain.SortMethod, error) {
	ascending := defaultAscending
	if raw := c.Query("ascending"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.SortMethod{}, fmt.Errorf("invalid ascending %q", raw)
		}
		ascending = v
	}
	return domain.ParseSortMethod(c.Query("sortBy"), ascending, allowed...)
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &v, nil
}

func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &v, nil
}

func queryBool(c *gin.Context, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// queryDate resolves range, start and end into a window. Custom windows need both
// bounds as YYYY-MM-DD in the location of now.
func queryDate(c *gin.Context, now time.Time) (domain.QueueDate, error) {
	r, err := domain.ParseDateRange(c.Query("range"))
	if err != nil {
		return domain.QueueDate{}, err
	}
	if r != domain.RangeCustom {
		return domain.QueueDateOf(r, now), nil
	}
	start, err := time.ParseInLocation(dateLayout, c.Query("start"), now.Location())
	if err != nil {
		return domain.QueueDate{}, fmt.Errorf("invalid start %q", c.Query("start"))
	}
	end, err := time.ParseInLocation(dateLayout, c.Query("end"), now.Location())
	if err != nil {
		return domain.QueueDate{}, fmt.Errorf("invalid end %q", c.Query("end"))
	}
	if end.Before(start) {
		return domain.QueueDate{}, fmt.Errorf("end before start")
	}
	return domain.CustomQueueDate(start, end), nil
}

func queryStatuses(c *gin.Context) ([]domain.QueueStatus, error) {
	raw := c.QueryArray("status")
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]domain.QueueStatus, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			s, err := domain.ParseQueueStatus(part)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func queryList(c *gin.Context, name string) []string {
	var out []string
	for _, v := range c.QueryArray(name) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
