// utils/paginate.go
package utils

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is the list-endpoint envelope: total count, next/previous links, items.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// Paginate runs the query with page/page_size from the request and fills out.
// Callers apply filters and ordering before handing the query over.
func Paginate(c *fiber.Ctx, query *gorm.DB, out interface{}) (*Page, error) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	size := c.QueryInt("page_size", DefaultPageSize)
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	if err := query.Offset((page - 1) * size).Limit(size).Find(out).Error; err != nil {
		return nil, err
	}

	p := &Page{Count: count, Results: out}
	if int64(page*size) < count {
		p.Next = pageURL(c, page+1, size)
	}
	if page > 1 {
		p.Previous = pageURL(c, page-1, size)
	}
	return p, nil
}

func pageURL(c *fiber.Ctx, page, size int) *string {
	q := url.Values{}
	for k, v := range c.Queries() {
		q.Set(k, v)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
	s := c.Path() + "?" + q.Encode()
	return &s
}
