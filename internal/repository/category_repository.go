package repository

import (
	"context"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/util"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: tx}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	err := r.DB.WithContext(ctx).Create(category).Error
	return translate(err, nil, util.NewConflictError("category already exists"))
}

// CountByIDs 返回 ids 中实际存在的分类数
func (r *CategoryRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.DB.WithContext(ctx).Model(&model.Category{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

// ListWithCounts 按名称排序，附带每个分类下的课程数
func (r *CategoryRepository) ListWithCounts(ctx context.Context) ([]model.CategoryWithCount, error) {
	db := r.DB.WithContext(ctx)

	var categories []model.Category
	if err := db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	counts, err := countBy(db, &model.CourseCategory{}, "category_id", ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.CategoryWithCount, len(categories))
	for i, c := range categories {
		out[i] = model.CategoryWithCount{Category: c, CourseCount: counts[c.ID]}
	}
	return out, nil
}

type courseCategoryRow struct {
	CourseID string
	ID       string
	Name     string
	Slug     string
}

// ForCourses 批量读取课程的分类
func (r *CategoryRepository) ForCourses(ctx context.Context, courseIDs []string) (map[string][]model.Category, error) {
	out := make(map[string][]model.Category, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []courseCategoryRow
	err := r.DB.WithContext(ctx).
		Table("course_categories").
		Select("course_categories.course_id, categories.id, categories.name, categories.slug").
		Joins("JOIN categories ON categories.id = course_categories.category_id").
		Where("course_categories.course_id IN ?", courseIDs).
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		c := model.Category{Name: row.Name, Slug: row.Slug}
		c.ID = row.ID
		out[row.CourseID] = append(out[row.CourseID], c)
	}
	return out, nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, translate(err, util.NewNotFoundError("category not found"), nil)
	}
	return &category, nil
}
