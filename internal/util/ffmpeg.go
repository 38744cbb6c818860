package util

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo 课时视频元数据
type VideoInfo struct {
	Duration float64 `json:"duration"` // 秒
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Codec    string  `json:"codec"`
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// GetVideoInfo 使用 ffprobe 读取本地视频文件
func GetVideoInfo(videoPath string) (*VideoInfo, error) {
	out, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}
	return ParseProbeOutput(out)
}

// ParseProbeOutput 解析 ffprobe 的 JSON 输出；没有视频流时返回错误
// 容器未给出时长时退回视频流自身的时长
func ParseProbeOutput(out string) (*VideoInfo, error) {
	var probe probeOutput
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return nil, fmt.Errorf("decode probe output: %w", err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		info := &VideoInfo{
			Width:  stream.Width,
			Height: stream.Height,
			Codec:  stream.CodecName,
		}
		info.Duration = parseSeconds(probe.Format.Duration)
		if info.Duration == 0 {
			info.Duration = parseSeconds(stream.Duration)
		}
		return info, nil
	}
	return nil, fmt.Errorf("no video stream")
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// DurationSeconds 四舍五入为整数秒
func (v *VideoInfo) DurationSeconds() int {
	if v == nil || v.Duration <= 0 {
		return 0
	}
	return int(math.Round(v.Duration))
}
