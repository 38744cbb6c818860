package service

import "miniudemy_backend/internal/model"

// ComputeProgressPercent 已完成课时占课程总课时的百分比，四舍五入取整并限制在 [0,100]
// 课程没有课时时为 0
func ComputeProgressPercent(progress []model.LessonProgress, totalLessons int64) int {
	if totalLessons <= 0 {
		return 0
	}
	var completed int64
	for _, p := range progress {
		if p.Completed {
			completed++
		}
	}

	// round(100*c/t) 的整数形式，避免浮点误差
	pct := (200*completed + totalLessons) / (2 * totalLessons)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}
