package usecase

import "context"

// ChartRenderer — клиент внешнего сервиса отрисовки графиков.
// Принимает JSON-датасет, возвращает PNG.
type ChartRenderer interface {
	Render(ctx context.Context, req *RenderChartReq) ([]byte, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
