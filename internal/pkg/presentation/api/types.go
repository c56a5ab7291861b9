package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/diwise/iot-device-catalog/pkg/types"
)

type meta struct {
	Offset *uint64 `json:"offset,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
	Count  uint64  `json:"count"`
}

type links struct {
	Self *string `json:"self,omitempty"`
	Next *string `json:"next,omitempty"`
}

type ApiResponse struct {
	Meta  *meta  `json:"meta,omitempty"`
	Data  any    `json:"data"`
	Links *links `json:"links,omitempty"`
}

func (r ApiResponse) Byte() []byte {
	b, _ := json.Marshal(r)
	return b
}

// newCollectionResponse wraps a page of devices. A full page gets a link to
// the next one.
func newCollectionResponse(r *http.Request, devices []types.Device, offset, limit int) ApiResponse {
	m := &meta{Count: uint64(len(devices))}

	if offset > 0 {
		o := uint64(offset)
		m.Offset = &o
	}
	if limit > 0 {
		l := uint64(limit)
		m.Limit = &l
	}

	self := r.URL.RequestURI()
	l := &links{Self: &self}

	if limit > 0 && len(devices) == limit {
		next := pageURL(r.URL, offset+limit, limit)
		l.Next = &next
	}

	return ApiResponse{
		Meta:  m,
		Data:  devices,
		Links: l,
	}
}

func pageURL(u *url.URL, offset, limit int) string {
	q := u.Query()
	q.Set("offset", fmt.Sprintf("%d", offset))
	q.Set("limit", fmt.Sprintf("%d", limit))

	next := *u
	next.RawQuery = q.Encode()

	return next.RequestURI()
}
