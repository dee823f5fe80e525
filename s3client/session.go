package s3client

import (
	"errors"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"
	"sync"
)

var errNoSession = errors.New("could not initialize S3 session")

type sessionFactory func() (*session.Session, error)

// sessionHolder shares one session between requests and replaces it when a request
// fails with it. Concurrent failures of the same session refresh it once.
type sessionHolder struct {
	mu      sync.Mutex
	curr    *session.Session
	factory sessionFactory
}

func (holder *sessionHolder) get() (*session.Session, error) {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	if holder.curr == nil {
		return holder.acquire()
	}
	return holder.curr, nil
}

func (holder *sessionHolder) refresh(failed *session.Session) (*session.Session, error) {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	if holder.curr != nil && holder.curr != failed {
		return holder.curr, nil
	}
	return holder.acquire()
}

func (holder *sessionHolder) acquire() (*session.Session, error) {
	sess, err := holder.factory()
	if err != nil {
		holder.curr = nil
		return nil, err
	}
	holder.curr = sess
	return sess, nil
}

// newSessionFactory tries the instance credentials first and falls back to the
// environment ones. A session is accepted once STS confirms its identity.
func newSessionFactory(env EnvironmentConfig) sessionFactory {
	return func() (*session.Session, error) {
		sess, err := verifiedSession(env, "instance")
		if err == nil {
			return sess, nil
		}
		clientLogger.Info().Err(err).Msg("Could not initialize S3 session using EC2, trying env credentials")
		if env.AccessKeyID == "" {
			return nil, errNoSession
		}
		sess, err = verifiedSession(env, "environment")
		if err != nil {
			clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
			return nil, errNoSession
		}
		return sess, nil
	}
}

func verifiedSession(env EnvironmentConfig, source string) (*session.Session, error) {
	cfg := env.instanceConfig()
	if source == "environment" {
		cfg = env.staticConfig()
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
		return nil, err
	}
	clientLogger.Info().Str("credentials", source).Msg("S3 session successfully initialized")
	return sess, nil
}
