package accesslog

import (
	"time"

	accesslogDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/accesslog"
)

const (
	ActionLogin    = "login"
	ActionRegister = "register"
)

type AccessLog struct {
	ID          int64
	UserID      int64
	AccessTime  time.Time
	Action      string
	FirstAccess bool
}

func (a *AccessLog) ToResponse() AccessLogResponse {
	return AccessLogResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		AccessTime:  a.AccessTime,
		Action:      a.Action,
		FirstAccess: a.FirstAccess,
	}
}

func ToDataModel(a *AccessLog) *accesslogDatamodel.AccessLog {
	return &accesslogDatamodel.AccessLog{
		ID:          a.ID,
		UserID:      a.UserID,
		AccessTime:  a.AccessTime,
		Action:      a.Action,
		FirstAccess: a.FirstAccess,
	}
}

func FromDataModel(a *accesslogDatamodel.AccessLog) *AccessLog {
	return &AccessLog{
		ID:          a.ID,
		UserID:      a.UserID,
		AccessTime:  a.AccessTime,
		Action:      a.Action,
		FirstAccess: a.FirstAccess,
	}
}
