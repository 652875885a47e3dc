package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/quillpost/internal/sanitize"
	"github.com/beevik/etree"
)

const atomNS = "http://www.w3.org/2005/Atom"

// Feed renders all posts as an Atom document
func (s *Service) Feed(ctx context.Context) ([]byte, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(s.config.BaseURL, "/")

	updated := s.now()
	if len(posts) > 0 {
		updated = posts[0].Created
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	feed := doc.CreateElement("feed")
	feed.CreateAttr("xmlns", atomNS)
	feed.CreateElement("title").SetText(s.config.SiteTitle)
	feed.CreateElement("id").SetText(base + "/")
	feed.CreateElement("updated").SetText(updated.UTC().Format(time.RFC3339))
	link := feed.CreateElement("link")
	link.CreateAttr("rel", "alternate")
	link.CreateAttr("href", base+"/")
	self := feed.CreateElement("link")
	self.CreateAttr("rel", "self")
	self.CreateAttr("href", base+"/feed.atom")

	for _, p := range posts {
		url := fmt.Sprintf("%s/post/%d", base, p.ID)
		entry := feed.CreateElement("entry")
		entry.CreateElement("title").SetText(p.Title)
		entry.CreateElement("id").SetText(url)
		entry.CreateElement("updated").SetText(p.Created.UTC().Format(time.RFC3339))
		l := entry.CreateElement("link")
		l.CreateAttr("href", url)
		entry.CreateElement("author").CreateElement("name").SetText(p.Username)
		content := entry.CreateElement("content")
		content.CreateAttr("type", "html")
		content.SetText(sanitize.Sanitize(p.Body))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write feed: %w", err)
	}
	return out, nil
}
