package logic

import (
	"context"
	"errors"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/mongodb"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/repository"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TeacherLogic defines the interface for customer account business logic.
type TeacherLogic interface {
	AddTeacher(ctx context.Context, d *dto.CreateTeacherRequest) (*models.Teacher, error)
	GetTeacher(ctx context.Context, id primitive.ObjectID) (*models.Teacher, error)
	ListTeachers(ctx context.Context) ([]*models.Teacher, error)
	UpdateTeacher(ctx context.Context, id primitive.ObjectID, d *dto.UpdateTeacherRequest) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id primitive.ObjectID) error
}

var _ TeacherLogic = (*teacherLogic)(nil)

type teacherLogic struct {
	teacherRepo repository.TeacherRepository
	logger      *zap.Logger
}

func NewTeacherLogic(teacherRepo repository.TeacherRepository, logger *zap.Logger) *teacherLogic {
	return &teacherLogic{
		teacherRepo: teacherRepo,
		logger:      logger.Named("TeacherLogic"),
	}
}

func (l *teacherLogic) AddTeacher(ctx context.Context, d *dto.CreateTeacherRequest) (*models.Teacher, error) {
	now := time.Now()
	teacher := &models.Teacher{
		ID:          primitive.NewObjectID(),
		TeacherName: d.TeacherName,
		Mobile:      d.Mobile,
		SchoolName:  d.SchoolName,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := l.teacherRepo.Create(ctx, teacher); err != nil {
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return nil, ErrDuplicateMobile
		}
		l.logger.Error("AddTeacher: create failed", zap.Error(err), zap.String("mobile", d.Mobile))
		return nil, err
	}
	return teacher, nil
}

func (l *teacherLogic) GetTeacher(ctx context.Context, id primitive.ObjectID) (*models.Teacher, error) {
	teacher, err := l.teacherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	return teacher, nil
}

func (l *teacherLogic) ListTeachers(ctx context.Context) ([]*models.Teacher, error) {
	return l.teacherRepo.List(ctx)
}

func (l *teacherLogic) UpdateTeacher(ctx context.Context, id primitive.ObjectID, d *dto.UpdateTeacherRequest) (*models.Teacher, error) {
	var opts []repository.UpdateOption
	if d.TeacherName != nil {
		opts = append(opts, repository.WithTeacherName(*d.TeacherName))
	}
	if d.Mobile != nil {
		opts = append(opts, repository.WithTeacherMobile(*d.Mobile))
	}
	if d.SchoolName != nil {
		opts = append(opts, repository.WithTeacherSchool(*d.SchoolName))
	}
	if d.Active != nil {
		opts = append(opts, repository.WithTeacherActive(*d.Active))
	}

	if err := l.teacherRepo.Update(ctx, id, opts...); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrTeacherNotFound
		}
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return nil, ErrDuplicateMobile
		}
		l.logger.Error("UpdateTeacher: update failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}

	return l.GetTeacher(ctx, id)
}

func (l *teacherLogic) DeleteTeacher(ctx context.Context, id primitive.ObjectID) error {
	if err := l.teacherRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return ErrTeacherNotFound
		}
		l.logger.Error("DeleteTeacher: delete failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	return nil
}
