package hashgraph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/pkg/errors"
)

// AccountID identifies an account as shard.realm.num. All components are
// non-negative.
type AccountID struct {
	Shard int64
	Realm int64
	Num   int64
}

func NewAccountID(shard, realm, num int64) (id AccountID, err error) {
	id = AccountID{Shard: shard, Realm: realm, Num: num}
	err = id.Validate()
	return
}

func (a AccountID) Validate() error {
	if a.Shard < 0 || a.Realm < 0 || a.Num < 0 {
		return errors.Wrapf(ErrValidation, "account id components must be non-negative: %d.%d.%d", a.Shard, a.Realm, a.Num)
	}
	return nil
}

func AccountIDFromString(s string) (id AccountID, err error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		err = errors.Wrapf(ErrValidation, "account id must be shard.realm.num: '%s'", s)
		return
	}

	var nums [3]int64
	for i, part := range parts {
		nums[i], err = strconv.ParseInt(part, 10, 64)
		if err != nil {
			err = errors.Wrapf(ErrValidation, "account id component '%s': %v", part, err)
			return
		}
	}

	return NewAccountID(nums[0], nums[1], nums[2])
}

func MustAccountID(s string) AccountID {
	id, err := AccountIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (a AccountID) String() string {
	return fmt.Sprintf("%d.%d.%d", a.Shard, a.Realm, a.Num)
}

func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(text []byte) (err error) {
	*a, err = AccountIDFromString(string(text))
	return
}

func (a AccountID) toProto() *hapi.AccountID {
	return &hapi.AccountID{
		ShardNum:   a.Shard,
		RealmNum:   a.Realm,
		AccountNum: a.Num,
	}
}

func accountIDFromProto(p *hapi.AccountID) (id AccountID, err error) {
	if p == nil {
		err = errors.Wrap(ErrNotFoundInResponse, "account id")
		return
	}
	return NewAccountID(p.ShardNum, p.RealmNum, p.AccountNum)
}
