//go:generate goverter gen github.com/DRSN-tech/quotes-backend/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertProductStatus
// goverter:extend ConvertProductStatusString
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// CustomerConverter преобразует сущности Customer между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
type CustomerConverter interface {
	ToModel(entity *domain.Customer) *CustomerModel
	ToEntity(model *CustomerModel) *domain.Customer
	ToArrEntity(models []*CustomerModel) []domain.Customer
}

// ActivityEventConverter преобразует сущности ActivityEvent между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertActivityAction
// goverter:extend ConvertActivityActionString
type ActivityEventConverter interface {
	ToEntity(model *ActivityEventModel) *domain.ActivityEvent
	ToArrEntity(models []*ActivityEventModel) []domain.ActivityEvent
}

// ActivityOutboxConverter преобразует события журнала с outbox-полями между usecase и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertActivityAction
// goverter:extend ConvertActivityActionString
// goverter:extend ConvertOutboxStatus
// goverter:extend ConvertOutboxStatusString
type ActivityOutboxConverter interface {
	ToEntity(model *ActivityEventModel) *usecase.ActivityOutboxEvent
	ToArrEntity(models []*ActivityEventModel) []*usecase.ActivityOutboxEvent
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertProductStatus(s string) domain.ProductStatus {
	return domain.ProductStatus(s)
}

func ConvertProductStatusString(s domain.ProductStatus) string {
	return string(s)
}

func ConvertActivityAction(s string) domain.ActivityAction {
	return domain.ActivityAction(s)
}

func ConvertActivityActionString(a domain.ActivityAction) string {
	return string(a)
}

func ConvertOutboxStatus(s string) usecase.OutboxStatus {
	return usecase.OutboxStatus(s)
}

func ConvertOutboxStatusString(s usecase.OutboxStatus) string {
	return string(s)
}
