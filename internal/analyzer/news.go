package analyzer

import (
	"net/url"
	"strings"
)

const (
	newsTitlePrefix   = "🔍 관련 뉴스: "
	newsFallbackTitle = "🔍 관련 뉴스 검색 결과 보기"
)

// NewsLink points at a news search for the comment's topic.
type NewsLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// buildNewsLink returns a keyword link when query is non-empty and a link searching the
// comment itself otherwise.
func buildNewsLink(searchURL, query, comment string) NewsLink {
	if query = strings.TrimSpace(query); query != "" {
		return NewsLink{
			Title: newsTitlePrefix + query,
			URL:   newsSearchURL(searchURL, query),
		}
	}
	return NewsLink{
		Title: newsFallbackTitle,
		URL:   newsSearchURL(searchURL, comment),
	}
}

func newsSearchURL(searchURL, query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("tbm", "nws")
	return searchURL + "?" + params.Encode()
}
