package logic

import (
	"context"
	"errors"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/mongodb"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/repository"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BookLogic defines the interface for catalog business logic.
type BookLogic interface {
	AddBook(ctx context.Context, d *dto.CreateBookRequest) (*models.Book, error)
	GetBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	ListBooks(ctx context.Context, activeOnly bool) ([]*models.Book, error)
	UpdateBook(ctx context.Context, id primitive.ObjectID, d *dto.UpdateBookRequest) (*models.Book, error)
	DeactivateBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
}

var _ BookLogic = (*bookLogic)(nil)

type bookLogic struct {
	bookRepo repository.BookRepository
	logger   *zap.Logger
}

func NewBookLogic(bookRepo repository.BookRepository, logger *zap.Logger) *bookLogic {
	return &bookLogic{
		bookRepo: bookRepo,
		logger:   logger.Named("BookLogic"),
	}
}

func (l *bookLogic) AddBook(ctx context.Context, d *dto.CreateBookRequest) (*models.Book, error) {
	price, err := helper.Float64ToDecimal128(d.DefaultPrice)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	book := &models.Book{
		ID:           primitive.NewObjectID(),
		Name:         d.Name,
		DefaultPrice: price,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := l.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return nil, ErrDuplicateBookName
		}
		l.logger.Error("AddBook: create failed", zap.Error(err), zap.String("name", d.Name))
		return nil, err
	}
	return book, nil
}

func (l *bookLogic) GetBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	book, err := l.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (l *bookLogic) ListBooks(ctx context.Context, activeOnly bool) ([]*models.Book, error) {
	return l.bookRepo.List(ctx, activeOnly)
}

// UpdateBook applies a partial update and returns the refreshed book.
// Deactivation leaves historical bill entries untouched because entries hold
// snapshot copies of the name and price.
func (l *bookLogic) UpdateBook(ctx context.Context, id primitive.ObjectID, d *dto.UpdateBookRequest) (*models.Book, error) {
	var opts []repository.UpdateOption
	if d.Name != nil {
		opts = append(opts, repository.WithBookName(*d.Name))
	}
	if d.DefaultPrice != nil {
		price, err := helper.Float64ToDecimal128(*d.DefaultPrice)
		if err != nil {
			return nil, err
		}
		opts = append(opts, repository.WithBookPrice(price))
	}
	if d.IsActive != nil {
		opts = append(opts, repository.WithBookActive(*d.IsActive))
	}

	if err := l.bookRepo.Update(ctx, id, opts...); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return nil, ErrDuplicateBookName
		}
		l.logger.Error("UpdateBook: update failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}

	return l.GetBook(ctx, id)
}

// DeactivateBook soft-deletes a book. The book stays resolvable for existing
// bills; it only stops appearing in active catalog listings.
func (l *bookLogic) DeactivateBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	if err := l.bookRepo.Update(ctx, id, repository.WithBookActive(false)); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		l.logger.Error("DeactivateBook: update failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return l.GetBook(ctx, id)
}
