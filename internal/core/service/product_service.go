package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ProductService orchestrates listing CRUD and the image lifecycle. The
// ordering contract: an image is always stored before the record that
// references it is written, and old images are deleted only after the record
// no longer points at them. A crash mid-flow can orphan a file (the janitor
// sweeps those) but never leaves a record referencing a missing file.
type ProductService struct {
	repo    ports.ProductRepository
	files   ports.FileStore
	orphans ports.OrphanSink
	log     zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, files ports.FileStore, orphans ports.OrphanSink, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, files: files, orphans: orphans, log: log}
}

func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	if in.Image == nil {
		return nil, domain.ErrNotAnImage
	}

	// Image first: a store failure aborts before any database write.
	ref, err := s.files.Store(ctx, *in.Image)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Product{
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		ImageRef:    ref,
		OwnerID:     in.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		// Record write failed after the file landed: hand the orphan to the
		// janitor instead of blocking the error path on more I/O.
		s.orphans.Enqueue(ref)
		return nil, err
	}

	s.log.Info().Str("product_id", created.ID).Str("owner_id", in.OwnerID).Msg("product created")
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, in ports.UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(in.OwnerID) {
		return nil, domain.ErrForbidden
	}

	oldRef, newRef := product.ImageRef, ""
	if in.Image != nil {
		// Store the replacement before touching the record; on failure the
		// old file and old reference stay fully intact.
		newRef, err = s.files.Store(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		product.ImageRef = newRef
	}

	product.Title = in.Title
	product.Price = in.Price
	product.Description = in.Description
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		if newRef != "" {
			s.orphans.Enqueue(newRef)
		}
		return nil, err
	}

	// The record now points at the new file; the old one is deletable. A
	// failure here leaves a sweepable orphan, not a dangling reference.
	if newRef != "" && oldRef != "" {
		if err := s.files.Remove(ctx, oldRef); err != nil {
			s.log.Warn().Err(err).Str("image_ref", oldRef).Msg("failed to delete replaced image")
			s.orphans.Enqueue(oldRef)
		}
	}

	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, ownerID, productID string) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.OwnedBy(ownerID) {
		return domain.ErrForbidden
	}

	// File first, but non-blocking: a dangling file is a cleanable defect,
	// a record pointing at a missing file is not.
	if err := s.files.Remove(ctx, product.ImageRef); err != nil {
		s.log.Warn().Err(err).Str("image_ref", product.ImageRef).Msg("failed to delete product image")
		s.orphans.Enqueue(product.ImageRef)
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	s.log.Info().Str("product_id", productID).Str("owner_id", ownerID).Msg("product deleted")
	return nil
}

func (s *ProductService) ListOwned(ctx context.Context, ownerID string) ([]domain.Product, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

func (s *ProductService) Get(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, productID)
}

func (s *ProductService) Browse(ctx context.Context, page, perPage int64) ([]domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return s.repo.FindPage(ctx, page, perPage)
}
