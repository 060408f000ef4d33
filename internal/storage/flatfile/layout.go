package flatfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sandevgo/topicscribe/internal/core"
)

const (
	topicPrefix = "topic_"
	chatPrefix  = "chat_"
	storeExt    = ".txt"
	archiveDir  = "archived_topics"
)

// Layout maps keys to backing files in the active and archived areas.
type Layout struct {
	root string
}

func NewLayout(root string) Layout {
	return Layout{root: root}
}

func (l Layout) Root() string {
	return l.root
}

func (l Layout) ArchiveRoot() string {
	return filepath.Join(l.root, archiveDir)
}

// Ensure creates both storage areas.
func (l Layout) Ensure() error {
	if err := os.MkdirAll(l.ArchiveRoot(), 0755); err != nil {
		return fmt.Errorf("failed to create storage directories: %w", err)
	}
	return nil
}

func BaseName(key core.Key) string {
	if key.Threaded() {
		return fmt.Sprintf("%s%d_%d%s", topicPrefix, key.ChatID, key.TopicID, storeExt)
	}
	return fmt.Sprintf("%s%d%s", chatPrefix, key.ChatID, storeExt)
}

func (l Layout) ActivePath(key core.Key) string {
	return filepath.Join(l.root, BaseName(key))
}

func (l Layout) ArchivedPath(key core.Key) string {
	return filepath.Join(l.ArchiveRoot(), BaseName(key))
}

// ParseName recovers the key from a backing store basename.
func ParseName(name string) (core.Key, bool) {
	if !strings.HasSuffix(name, storeExt) {
		return core.Key{}, false
	}
	stem := strings.TrimSuffix(name, storeExt)

	switch {
	case strings.HasPrefix(stem, topicPrefix):
		chat, topic, ok := strings.Cut(strings.TrimPrefix(stem, topicPrefix), "_")
		if !ok {
			return core.Key{}, false
		}
		chatID, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return core.Key{}, false
		}
		topicID, err := strconv.ParseInt(topic, 10, 64)
		if err != nil || topicID == core.NoTopic {
			return core.Key{}, false
		}
		return core.TopicKey(chatID, topicID), true
	case strings.HasPrefix(stem, chatPrefix):
		chatID, err := strconv.ParseInt(strings.TrimPrefix(stem, chatPrefix), 10, 64)
		if err != nil {
			return core.Key{}, false
		}
		return core.ChatKey(chatID), true
	default:
		return core.Key{}, false
	}
}

// chatGlob matches every threaded store of a chat inside dir.
func chatGlob(dir string, chatID int64) string {
	return filepath.Join(dir, fmt.Sprintf("%s%d_*%s", topicPrefix, chatID, storeExt))
}
