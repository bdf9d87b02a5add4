package notify

import (
	"context"
	"fmt"

	"github.com/guonaihong/gout"

	"github.com/Sanchit081/NeuroBit/internal/config"
)

const (
	notionPagesURL = "https://api.notion.com/v1/pages"
	notionVersion  = "2022-06-28"
)

// NotionClient mirrors new subscribers into the Notion CRM database.
type NotionClient struct {
	cfg config.Config
}

func NewNotionClient(cfg config.Config) *NotionClient {
	return &NotionClient{cfg: cfg}
}

// Enabled reports whether the integration is configured. Without credentials
// the sync task is skipped entirely instead of failing on every subscribe.
func (n *NotionClient) Enabled() bool {
	return n.cfg.NotionAPIKey != "" && n.cfg.NotionDatabaseID != ""
}

type NotionSubscriber struct {
	Name      string
	Email     string
	Interests []string
	Source    string
}

// AddSubscriber creates one page per subscriber in the configured database.
func (n *NotionClient) AddSubscriber(ctx context.Context, sub NotionSubscriber) error {
	title := sub.Name
	if title == "" {
		title = sub.Email
	}
	source := sub.Source
	if source == "" {
		source = "website"
	}

	interests := make([]gout.H, 0, len(sub.Interests))
	for _, interest := range sub.Interests {
		interests = append(interests, gout.H{"name": interest})
	}

	body := gout.H{
		"parent": gout.H{
			"database_id": n.cfg.NotionDatabaseID,
		},
		"properties": gout.H{
			"Name": gout.H{
				"title": []gout.H{
					{"text": gout.H{"content": title}},
				},
			},
			"Email": gout.H{
				"email": sub.Email,
			},
			"Interests": gout.H{
				"multi_select": interests,
			},
			"Source": gout.H{
				"select": gout.H{"name": source},
			},
			"Active": gout.H{
				"checkbox": true,
			},
		},
	}

	code := 0
	err := gout.POST(notionPagesURL).
		WithContext(ctx).
		SetHeader(gout.H{
			"Authorization":  "Bearer " + n.cfg.NotionAPIKey,
			"Notion-Version": notionVersion,
		}).
		SetJSON(body).
		Code(&code).
		Do()
	if err != nil {
		return err
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("notion pages.create returned status %d", code)
	}
	return nil
}
