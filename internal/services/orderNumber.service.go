package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fieldops/internal/lifecycle"
	"fieldops/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const ORDER_NUMBER_ATTEMPTS = 5

// OrderNumberService hands out PREFIX-YYYY-NNNN business keys. Uniqueness is
// owned by the store; a lost race surfaces as a Conflict from insert and the
// next number is tried.
type OrderNumberService struct {
	orderRepo repositories.OrderRepository
	prefix    string
	now       func() time.Time
	log       logger.Logger
}

func NewOrderNumberService(orderRepo repositories.OrderRepository, prefix string) *OrderNumberService {
	return &OrderNumberService{
		orderRepo: orderRepo,
		prefix:    prefix,
		now:       time.Now,
		log:       logger.New("orderNumberService"),
	}
}

func (s *OrderNumberService) yearPrefix() string {
	return fmt.Sprintf("%s-%d-", s.prefix, s.now().UTC().Year())
}

// Next returns the number following the highest one issued this year.
func (s *OrderNumberService) Next(ctx context.Context, tx *gorm.DB) (string, error) {
	prefix := s.yearPrefix()

	last, err := s.orderRepo.LastOrderNumber(ctx, tx, prefix)
	if err != nil {
		return "", err
	}

	seq, err := nextSequence(last, prefix)
	if err != nil {
		return "", err
	}
	return prefix + fmt.Sprintf("%04d", seq), nil
}

// Reserve calls insert with successive numbers until one is accepted.
func (s *OrderNumberService) Reserve(
	ctx context.Context,
	tx *gorm.DB,
	insert func(number string) error,
) (string, error) {
	log := s.log.Function("Reserve")

	for attempt := 1; attempt <= ORDER_NUMBER_ATTEMPTS; attempt++ {
		number, err := s.Next(ctx, tx)
		if err != nil {
			return "", err
		}

		err = insert(number)
		if err == nil {
			return number, nil
		}
		if lifecycle.Kind(err) != lifecycle.ErrConflict {
			return "", err
		}

		log.Warn("order number taken, retrying", "number", number, "attempt", attempt)
	}

	return "", lifecycle.Conflict("could not allocate an order number after %d attempts", ORDER_NUMBER_ATTEMPTS)
}

// nextSequence fails on a highest number it cannot read, since counting again
// from 1 would only collide with the numbers already issued.
func nextSequence(last, prefix string) (int, error) {
	if last == "" {
		return 1, nil
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil || seq < 0 {
		return 0, lifecycle.Conflict("cannot continue after unreadable order number %s", last)
	}
	return seq + 1, nil
}
