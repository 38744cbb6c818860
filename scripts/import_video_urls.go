// 批量导入课时视频地址
//
// 清单为 YAML，按课时 order 指定视频地址，YouTube 链接会被规整为 watch?v=<id> 形式。
//
// 用法: go run scripts/import_video_urls.go -manifest videos.yaml

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"miniudemy_backend/internal/config"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/pkg/database"
	"miniudemy_backend/pkg/logger"
	"os"
	"regexp"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type manifest struct {
	CourseID string       `yaml:"course_id"`
	Videos   []videoEntry `yaml:"videos"`
}

type videoEntry struct {
	Order int    `yaml:"order"`
	URL   string `yaml:"url"`
}

var youtubeID = regexp.MustCompile(`(?:watch\?v=|youtu\.be/|embed/)([a-zA-Z0-9_-]{11})`)

// cleanVideoURL 去掉 YouTube 链接中的播放列表、时间戳等参数，其他地址原样返回
func cleanVideoURL(raw string) string {
	m := youtubeID.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	return "https://www.youtube.com/watch?v=" + m[1]
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.CourseID == "" {
		return nil, fmt.Errorf("%s: course_id is required", path)
	}
	return &m, nil
}

// apply 按 order 匹配课时并更新视频地址，返回更新数量
func apply(ctx context.Context, lessons *repository.LessonRepository, m *manifest) (int, error) {
	list, err := lessons.ListByCourse(ctx, m.CourseID)
	if err != nil {
		return 0, err
	}
	byOrder := make(map[int]string, len(list))
	for _, l := range list {
		byOrder[l.Order] = l.ID
	}

	updated := 0
	for _, v := range m.Videos {
		id, ok := byOrder[v.Order]
		if !ok {
			logger.Log.Warn("No lesson for order", zap.Int("order", v.Order))
			continue
		}
		if err := lessons.Update(ctx, id, map[string]interface{}{"video_url": cleanVideoURL(v.URL)}); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

func main() {
	manifestPath := flag.String("manifest", "videos.yaml", "视频清单文件")
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)

	m, err := loadManifest(*manifestPath)
	if err != nil {
		log.Fatalf("解析清单失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	n, err := apply(context.Background(), repository.NewLessonRepository(db), m)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Printf("完成！更新了 %d 个课时", n)
}
