package handlers

// Static result pages rendered for users who follow the verification link
// from their email client.

const verifySuccessPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Email Verified - ChatUp</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; }
        body { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); min-height: 100vh; display: flex; align-items: center; justify-content: center; padding: 20px; }
        .container { background: white; border-radius: 16px; box-shadow: 0 20px 40px rgba(0, 0, 0, 0.1); padding: 60px 40px; text-align: center; max-width: 500px; width: 100%; }
        h1 { color: #333; font-size: 2.5rem; margin-bottom: 15px; font-weight: 600; }
        .success-message { color: #4CAF50; font-size: 1.2rem; margin-bottom: 15px; font-weight: 500; }
        .description { color: #666; font-size: 1rem; margin-bottom: 30px; line-height: 1.6; }
        .btn { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; border: none; padding: 15px 30px; font-size: 1rem; border-radius: 50px; cursor: pointer; text-decoration: none; display: inline-block; font-weight: 500; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Email Verified!</h1>
        <p class="success-message">Success! Your email has been verified.</p>
        <p class="description">You can now log in to your account and start using all the features of ChatUp.</p>
        <a href="/" class="btn">Back to Login</a>
    </div>
</body>
</html>
`

const verifyFailedPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Email Verification Failed - ChatUp</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; }
        body { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); min-height: 100vh; display: flex; align-items: center; justify-content: center; padding: 20px; }
        .container { background: white; border-radius: 16px; box-shadow: 0 20px 40px rgba(0, 0, 0, 0.1); padding: 60px 40px; text-align: center; max-width: 500px; width: 100%; }
        h1 { color: #333; font-size: 2.5rem; margin-bottom: 15px; font-weight: 600; }
        .error-message { color: #f44336; font-size: 1.2rem; margin-bottom: 30px; font-weight: 500; }
        .description { color: #666; font-size: 1rem; margin-bottom: 30px; line-height: 1.6; }
        .btn { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; border: none; padding: 15px 30px; font-size: 1rem; border-radius: 50px; cursor: pointer; text-decoration: none; display: inline-block; font-weight: 500; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Verification Failed</h1>
        <p class="error-message">Invalid or expired verification token.</p>
        <p class="description">The verification link you clicked is invalid or has expired. Please try registering again or contact support if you continue to have issues.</p>
        <a href="/" class="btn">Back to Login</a>
    </div>
</body>
</html>
`

const verifyErrorPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Verification Error - ChatUp</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; }
        body { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); min-height: 100vh; display: flex; align-items: center; justify-content: center; padding: 20px; }
        .container { background: white; border-radius: 16px; box-shadow: 0 20px 40px rgba(0, 0, 0, 0.1); padding: 60px 40px; text-align: center; max-width: 500px; width: 100%; }
        h1 { color: #333; font-size: 2.5rem; margin-bottom: 15px; font-weight: 600; }
        .error-message { color: #f44336; font-size: 1.2rem; margin-bottom: 30px; font-weight: 500; }
        .description { color: #666; font-size: 1rem; margin-bottom: 30px; line-height: 1.6; }
        .btn { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; border: none; padding: 15px 30px; font-size: 1rem; border-radius: 50px; cursor: pointer; text-decoration: none; display: inline-block; font-weight: 500; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Verification Error</h1>
        <p class="error-message">An error occurred during email verification.</p>
        <p class="description">Something went wrong while verifying your email. Please try again or contact support if the issue persists.</p>
        <a href="/" class="btn">Back to Login</a>
    </div>
</body>
</html>
`
