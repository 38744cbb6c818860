package repository

import (
	"errors"
	"miniudemy_backend/internal/model"

	"gorm.io/gorm"
)

// translate 将记录不存在和唯一约束冲突映射为对应的业务错误，其他错误原样返回
func translate(err error, notFound, conflict error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case conflict != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return conflict
	default:
		return err
	}
}

// userSummaries 按 ID 批量读取用户公开信息
func userSummaries(db *gorm.DB, ids []string) (map[string]model.UserSummary, error) {
	out := make(map[string]model.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.UserSummary
	err := db.Model(&model.User{}).
		Select("id, name, avatar, bio").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = u
	}
	return out, nil
}

type countRow struct {
	RefID string
	N     int64
}

// countBy 统计 table 中 column 取值为 ids 的行数
func countBy(db *gorm.DB, table interface{}, column string, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []countRow
	err := db.Model(table).
		Select(column+" AS ref_id, COUNT(*) AS n").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.RefID] = r.N
	}
	return out, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
