package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"provider_id",
			"subject_id",
			"booker_id",
			"date",
			"time",
			"status",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"provider_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"subject_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"booker_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"time": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "completed", "cancelled"},
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"is_first_visit": bson.M{
				"bsonType": "bool",
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"subject_details": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType":  "string",
					"maxLength": 256,
				},
			},

			"cancellation_reason": bson.M{
				"bsonType": "string",
			},

			"cancelled_by": bson.M{
				"bsonType": "string",
			},

			"cancelled_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
