package service

import (
	"context"
	"errors"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/internal/util"
	"miniudemy_backend/pkg/logger"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	SeedInstructorEmail = "instructor@miniudemy.com"
	SeedStudentEmail    = "student@miniudemy.com"
	SeedPassword        = "password123"
	SeedCourseNextJS    = "seed-course-nextjs"
	SeedCourseDocker    = "seed-course-docker"
	SeedCourseRN        = "seed-course-react-native"
)

type seedLesson struct {
	title    string
	content  string
	order    int
	free     bool
	duration int
}

type seedCourse struct {
	id          string
	title       string
	description string
	price       float64
	level       model.CourseLevel
	thumbnail   string
	category    string
	lessons     []seedLesson
}

var seedCategories = []model.Category{
	{Name: "Web Development", Slug: "web-development"},
	{Name: "Mobile Development", Slug: "mobile-development"},
	{Name: "Data Science", Slug: "data-science"},
	{Name: "DevOps", Slug: "devops"},
	{Name: "Design", Slug: "design"},
}

var seedCourses = []seedCourse{
	{
		id:          SeedCourseNextJS,
		title:       "Mastering Next.js 14 - Full Course",
		description: "Learn Next.js 14 from scratch. Build modern full-stack web applications with React Server Components, App Router, and more.",
		price:       499000,
		level:       model.Intermediate,
		thumbnail:   "https://placehold.co/600x400?text=Next.js+14",
		category:    "web-development",
		lessons: []seedLesson{
			{"Introduction to Next.js", "Welcome to the course! In this lesson...", 1, true, 600},
			{"Setting up the Project", "Let's set up our development environment...", 2, true, 900},
			{"App Router Basics", "Understanding the new App Router...", 3, false, 1200},
			{"Server Components", "React Server Components explained...", 4, false, 1500},
			{"Data Fetching Patterns", "Learn different data fetching strategies...", 5, false, 1800},
			{"Authentication with NextAuth", "Implementing auth in Next.js...", 6, false, 2100},
			{"Deploying to Production", "Deploy your app to Vercel...", 7, false, 1200},
		},
	},
	{
		id:          SeedCourseDocker,
		title:       "Docker & Kubernetes for Beginners",
		description: "Master containerization with Docker and orchestration with Kubernetes. Deploy your applications like a pro.",
		price:       399000,
		level:       model.Beginner,
		thumbnail:   "https://placehold.co/600x400?text=Docker",
		category:    "devops",
	},
	{
		id:          SeedCourseRN,
		title:       "React Native - Build Mobile Apps",
		description: "Build cross-platform mobile applications with React Native. From setup to deployment on App Store and Google Play.",
		price:       599000,
		level:       model.Advanced,
		thumbnail:   "https://placehold.co/600x400?text=React+Native",
		category:    "mobile-development",
	},
}

// SeedService 写入演示数据，课程与课时使用固定 ID
type SeedService struct {
	DB *gorm.DB
}

func NewSeedService(db *gorm.DB) *SeedService {
	return &SeedService{DB: db}
}

// Seed 返回是否写入了数据；固定 ID 的课程已存在时视为已初始化
func (s *SeedService) Seed(ctx context.Context) (bool, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		categories := repository.NewCategoryRepository(tx)
		courses := repository.NewCourseRepository(tx)
		lessons := repository.NewLessonRepository(tx)

		bio := "Senior developer with 10+ years of experience"
		instructor, err := findOrCreateUser(ctx, users, &model.User{
			Email: SeedInstructorEmail, Password: string(hashed), Name: "Nguyen Van A", Role: model.Instructor, Bio: &bio,
		})
		if err != nil {
			return err
		}
		student, err := findOrCreateUser(ctx, users, &model.User{
			Email: SeedStudentEmail, Password: string(hashed), Name: "Tran Van B", Role: model.Student,
		})
		if err != nil {
			return err
		}

		categoryIDs := make(map[string]string, len(seedCategories))
		for _, c := range seedCategories {
			existing, err := categories.FindBySlug(ctx, c.Slug)
			switch {
			case err == nil:
				categoryIDs[c.Slug] = existing.ID
				continue
			case !util.IsKind(err, util.KindNotFound):
				return err
			}
			if err := categories.Create(ctx, &c); err != nil {
				return err
			}
			categoryIDs[c.Slug] = c.ID
		}

		for _, sc := range seedCourses {
			thumbnail := sc.thumbnail
			course := &model.Course{
				Title:        sc.title,
				Description:  sc.description,
				Price:        sc.price,
				Level:        sc.level,
				Thumbnail:    &thumbnail,
				Published:    true,
				InstructorID: instructor.ID,
			}
			course.ID = sc.id
			if err := courses.Create(ctx, course, []string{categoryIDs[sc.category]}); err != nil {
				return err
			}

			for _, sl := range sc.lessons {
				content := sl.content
				lesson := &model.Lesson{
					Title:    sl.title,
					Content:  &content,
					Order:    sl.order,
					Free:     sl.free,
					Duration: sl.duration,
					CourseID: course.ID,
				}
				lesson.ID = seedLessonID(sl.order)
				if err := lessons.Create(ctx, lesson); err != nil {
					return err
				}
			}
		}

		enrollment := &model.Enrollment{UserID: student.ID, CourseID: SeedCourseNextJS}
		if err := repository.NewEnrollmentRepository(tx).Create(ctx, enrollment); err != nil {
			return err
		}

		comment := "Excellent course! Very well structured and easy to follow."
		_, err = repository.NewReviewRepository(tx).Upsert(ctx, &model.Review{
			UserID: student.ID, CourseID: SeedCourseNextJS, Rating: 5, Comment: &comment,
		})
		return err
	})

	if errors.Is(err, util.ErrCourseExists) {
		logger.Log.Info("seed data already present, skipping")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	logger.Log.Info("seed completed", zap.Int("courses", len(seedCourses)))
	return true, nil
}

// seedLessonID 演示课时 ID，导入脚本与前端示例依赖这些固定值
func seedLessonID(order int) string {
	return "seed-lesson-" + strconv.Itoa(order)
}

func findOrCreateUser(ctx context.Context, users *repository.UserRepository, user *model.User) (*model.User, error) {
	existing, err := users.FindByEmail(ctx, user.Email)
	if err == nil {
		return existing, nil
	}
	if !util.IsKind(err, util.KindNotFound) {
		return nil, err
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
