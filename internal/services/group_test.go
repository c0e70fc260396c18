package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupCreateFlipsHeadFlag(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	groups := NewGroupService(db)

	ids, err := users.Create(testUserParams("owner@example.com"))
	require.NoError(t, err)

	groupID, err := groups.Create(CreateGroupParams{
		OwnerID:     ids.UserID,
		Name:        "North Field",
		Description: "Rice paddies by the river",
	})
	require.NoError(t, err)
	require.NotEmpty(t, groupID)

	owner, err := users.Get(ids.UserID)
	require.NoError(t, err)
	require.True(t, owner.IsUserHead)
}

func TestGroupCreateDuplicateName(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupService(db)

	_, err := groups.Create(CreateGroupParams{OwnerID: "u1", Name: "North Field", Description: "d"})
	require.NoError(t, err)

	_, err = groups.Create(CreateGroupParams{OwnerID: "u2", Name: "North Field", Description: "d"})
	require.ErrorIs(t, err, ErrGroupNameExists)
}

func TestGroupNameReusableAfterSoftDelete(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupService(db)

	groupID, err := groups.Create(CreateGroupParams{OwnerID: "u1", Name: "North Field", Description: "d"})
	require.NoError(t, err)
	require.NoError(t, groups.SoftDelete(groupID))

	_, err = groups.Create(CreateGroupParams{OwnerID: "u1", Name: "North Field", Description: "d"})
	require.NoError(t, err)
}

func TestGroupGetAndUpdate(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupService(db)

	groupID, err := groups.Create(CreateGroupParams{OwnerID: "u1", Name: "North Field", Description: "d"})
	require.NoError(t, err)

	newName := "South Field"
	require.NoError(t, groups.Update(groupID, UpdateGroupParams{Name: &newName}))

	group, err := groups.Get(groupID)
	require.NoError(t, err)
	require.Equal(t, "South Field", group.Name)
	require.Equal(t, "d", group.Description)

	byName, err := groups.GetByName("South Field")
	require.NoError(t, err)
	require.Equal(t, groupID, byName.ID)

	_, err = groups.Get("no-such-group")
	require.ErrorIs(t, err, ErrGroupNotFound)
	require.ErrorIs(t, groups.Update("no-such-group", UpdateGroupParams{Name: &newName}), ErrGroupNotFound)
}

func TestGroupListByOwner(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupService(db)

	_, err := groups.Create(CreateGroupParams{OwnerID: "u1", Name: "A", Description: "d"})
	require.NoError(t, err)
	_, err = groups.Create(CreateGroupParams{OwnerID: "u1", Name: "B", Description: "d"})
	require.NoError(t, err)
	_, err = groups.Create(CreateGroupParams{OwnerID: "u2", Name: "C", Description: "d"})
	require.NoError(t, err)

	owned, err := groups.ListByOwner("u1")
	require.NoError(t, err)
	require.Len(t, owned, 2)

	none, err := groups.ListByOwner("u3")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestGroupAddMember(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	groups := NewGroupService(db)

	ids, err := users.Create(testUserParams("member@example.com"))
	require.NoError(t, err)
	groupID, err := groups.Create(CreateGroupParams{OwnerID: "u1", Name: "North Field", Description: "d"})
	require.NoError(t, err)

	userID, err := groups.AddMember(groupID, "member@example.com")
	require.NoError(t, err)
	require.Equal(t, ids.UserID, userID)

	member, err := users.Get(ids.UserID)
	require.NoError(t, err)
	require.True(t, member.IsUserInGroup)

	// Same user twice is rejected.
	_, err = groups.AddMember(groupID, "member@example.com")
	require.ErrorIs(t, err, ErrUserAlreadyInGroup)

	_, err = groups.AddMember("no-such-group", "member@example.com")
	require.ErrorIs(t, err, ErrGroupNotFound)
	_, err = groups.AddMember(groupID, "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGroupRemoveMember(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	groups := NewGroupService(db)

	ids, err := users.Create(testUserParams("member@example.com"))
	require.NoError(t, err)
	groupID, err := groups.Create(CreateGroupParams{OwnerID: "u1", Name: "North Field", Description: "d"})
	require.NoError(t, err)

	require.ErrorIs(t, groups.RemoveMember(groupID, ids.UserID), ErrMemberNotFound)

	_, err = groups.AddMember(groupID, "member@example.com")
	require.NoError(t, err)
	require.NoError(t, groups.RemoveMember(groupID, ids.UserID))

	members, err := groups.Members(groupID)
	require.NoError(t, err)
	require.Empty(t, members)

	// Removal is a hard delete, so the user can rejoin.
	_, err = groups.AddMember(groupID, "member@example.com")
	require.NoError(t, err)
}

func TestGroupMembersIncludesDisplayName(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	groups := NewGroupService(db)

	_, err := users.Create(testUserParams("member@example.com"))
	require.NoError(t, err)
	groupID, err := groups.Create(CreateGroupParams{OwnerID: "u1", Name: "North Field", Description: "d"})
	require.NoError(t, err)
	_, err = groups.AddMember(groupID, "member@example.com")
	require.NoError(t, err)

	members, err := groups.Members(groupID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "Juan Dela Cruz", members[0].UserName)
}
