package abstraction

import "gallery/internal/domain/model"

type Streamer interface {
	Subscribe() (<-chan model.Notification, func())
}
