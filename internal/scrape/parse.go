package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseMessages extracts raw posts from a rendered channel page. Messages
// without text (stickers, bare media) are skipped; missing dates and links
// leave the corresponding fields empty.
func ParseMessages(html string) ([]RawPost, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var posts []RawPost
	doc.Find("div.tgme_widget_message").Each(func(_ int, msg *goquery.Selection) {
		text := strings.TrimSpace(msg.Find("div.tgme_widget_message_text").Text())
		if text == "" {
			return
		}

		timestamp, _ := msg.Find("time").Attr("datetime")
		link, _ := msg.Find("a.tgme_widget_message_date").Attr("href")

		posts = append(posts, RawPost{
			Text:      text,
			Timestamp: timestamp,
			Link:      link,
		})
	})
	return posts, nil
}

// CountMessages reports how many text messages the page currently shows.
// Used by the poll loop to detect when scrolling stops loading history.
func CountMessages(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, err
	}
	return doc.Find("div.tgme_widget_message_text").Length(), nil
}
