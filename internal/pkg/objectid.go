package pkg

import "go.mongodb.org/mongo-driver/v2/bson"

// NewID 生成 24 位十六进制的 ObjectID，用作帖子、回答、用户主键
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ValidID 判断是否是合法的 ObjectID 字符串
func ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
