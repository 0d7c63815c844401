// CLAUDE:SUMMARY Intercepts and blocks configured resource types (images, fonts, media, stylesheets) on the working tab.
package browser

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// blockable maps config names to the CDP resource type they cover.
var blockable = map[string]proto.NetworkResourceType{
	"images":      proto.NetworkResourceTypeImage,
	"fonts":       proto.NetworkResourceTypeFont,
	"media":       proto.NetworkResourceTypeMedia,
	"stylesheets": proto.NetworkResourceTypeStylesheet,
}

// blockList resolves config names to resource types. Unknown names are
// taken as raw CDP types; the listing's own traffic is never blocked.
func blockList(names []string) map[proto.NetworkResourceType]bool {
	out := make(map[proto.NetworkResourceType]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		switch n {
		case "", "document", "xhr", "fetch":
			continue
		}
		rt, ok := blockable[n]
		if !ok {
			rt = proto.NetworkResourceType(strings.ToUpper(n[:1]) + n[1:])
		}
		out[rt] = true
	}
	return out
}

// applyResourceBlocking fails matching requests with BlockedByClient.
func applyResourceBlocking(page *rod.Page, names []string) error {
	blocked := blockList(names)
	if len(blocked) == 0 {
		return nil
	}

	router := page.HijackRequests()
	err := router.Add("*", "", func(h *rod.Hijack) {
		if blocked[h.Request.Type()] {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		return err
	}
	go router.Run()
	return nil
}
