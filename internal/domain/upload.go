package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upload stores metadata about an assessment clip a player recorded for one
// of the field tests. The actual file resides in S3; pending records are
// created when an upload URL is issued and marked confirmed once the client
// reports the PUT succeeded.
type Upload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // internal bucket path
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	Confirmed   bool               `bson:"confirmed" json:"confirmed"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
