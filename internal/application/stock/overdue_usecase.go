package stock

import (
	"time"

	"github.com/jhoicas/stock-rentals-api/internal/application/dto"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
)

const overdueScanLimit = 500

// OverdueUseCase detecta alquileres vencidos: transacciones RENTED aún
// ACTIVE cuya fecha esperada de devolución ya pasó. Lo consume tanto el
// endpoint del tablero como el escaneo programado.
type OverdueUseCase struct {
	txRepo repository.TransactionRepository
}

// NewOverdueUseCase construye el caso de uso.
func NewOverdueUseCase(txRepo repository.TransactionRepository) *OverdueUseCase {
	return &OverdueUseCase{txRepo: txRepo}
}

// ListOverdue lista los alquileres vencidos a la fecha dada.
func (uc *OverdueUseCase) ListOverdue(now time.Time) ([]dto.OverdueRentalResponse, error) {
	rentals, err := uc.txRepo.ListOverdueRentals(now, overdueScanLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OverdueRentalResponse, 0, len(rentals))
	for _, tx := range rentals {
		if tx.ExpectedReturnDate == nil {
			continue
		}
		days := int(now.Sub(*tx.ExpectedReturnDate).Hours() / 24)
		out = append(out, dto.OverdueRentalResponse{
			TransactionID:      tx.ID,
			CustomerID:         tx.CustomerID,
			CustomerName:       tx.CustomerName,
			ExpectedReturnDate: *tx.ExpectedReturnDate,
			DaysOverdue:        days,
		})
	}
	return out, nil
}
