package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func findIndex(t *testing.T, models []mongo.IndexModel, keys ...string) mongo.IndexModel {
	t.Helper()
	for _, m := range models {
		d, ok := m.Keys.(bson.D)
		if !ok || len(d) != len(keys) {
			continue
		}
		match := true
		for i, k := range keys {
			if d[i].Key != k {
				match = false
				break
			}
		}
		if match {
			return m
		}
	}
	t.Fatalf("no index on %v", keys)
	return mongo.IndexModel{}
}

func assertUnique(t *testing.T, m mongo.IndexModel, keys ...string) {
	t.Helper()
	if m.Options == nil || m.Options.Unique == nil || !*m.Options.Unique {
		t.Fatalf("index on %v must be unique", keys)
	}
}

func TestUserIndexes_UniqueConstraints(t *testing.T) {
	models := userIndexes()

	email := findIndex(t, models, "email")
	assertUnique(t, email, "email")

	username := findIndex(t, models, "username")
	assertUnique(t, username, "username")
	if username.Options.Sparse == nil || !*username.Options.Sparse {
		t.Fatal("username index must be sparse so empty usernames do not collide")
	}
}

func TestMembershipIndexes_UniquePair(t *testing.T) {
	pair := findIndex(t, membershipIndexes(), "user_id", "company_id")
	assertUnique(t, pair, "user_id", "company_id")
}

func TestInvitationIndexes_UniqueToken(t *testing.T) {
	token := findIndex(t, invitationIndexes(), "token")
	assertUnique(t, token, "token")
}
